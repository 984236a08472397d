package tablestore

import (
	"fmt"

	"github.com/tablestore-go/tablestore/plainbuffer"
)

// checkPKColumns enforces the shared structural constraints (non-empty,
// unique column names) and the per-context sentinel rules spec.md §3
// lays out: inf-min/inf-max may only appear in a range-scan bound;
// auto-increment may only appear in a put/update row's own primary key.
func checkPKColumns(pk PrimaryKey, allowInfSentinels, allowAutoIncrement bool) error {
	if len(pk.Columns) == 0 {
		return fmt.Errorf("primary key must not be empty")
	}
	seen := make(map[string]bool, len(pk.Columns))
	for _, c := range pk.Columns {
		if seen[c.Name] {
			return fmt.Errorf("primary key column %q appears more than once", c.Name)
		}
		seen[c.Name] = true
		switch c.Value.Kind {
		case plainbuffer.PKInfMin, plainbuffer.PKInfMax:
			if !allowInfSentinels {
				return fmt.Errorf("column %q: inf-min/inf-max may only appear as a range-scan bound", c.Name)
			}
		case plainbuffer.PKAutoIncrement:
			if !allowAutoIncrement {
				return fmt.Errorf("column %q: auto-increment may only appear in a put/update row's primary key", c.Name)
			}
		}
	}
	return nil
}

// validatePrimaryKey checks a primary key used as a row identifier
// (get-row, delete-row): no sentinel of any kind is meaningful here,
// since the caller must already know the row's concrete key.
func validatePrimaryKey(pk PrimaryKey) error {
	return checkPKColumns(pk, false, false)
}

// validateRangeBound checks a get-range inclusive-start/exclusive-end
// primary key, which may carry inf-min/inf-max sentinel columns but
// never an auto-increment placeholder.
func validateRangeBound(pk PrimaryKey) error {
	return checkPKColumns(pk, true, false)
}

// validateRow checks a full row body (put-row/update-row payload),
// whose primary key may carry an auto-increment placeholder. The table
// schema is not consulted, so the placeholder is accepted in any column.
func validateRow(row Row) error {
	return checkPKColumns(row.PK, false, true)
}
