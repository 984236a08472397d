package tablestore

import (
	"testing"
	"time"
)

// Concrete scenario 4 (spec.md §8): a put-row that returned HTTP 503
// with code OTSServerUnavailable is not retried (PutRow isn't
// idempotent); the same response for get-row is retried.
func TestDefaultRetryStrategy_ConcreteScenario_ServerUnavailable(t *testing.T) {
	s := NewDefaultRetryStrategy(3, 100*time.Millisecond, 0)
	err := &ServerError{Code: "OTSServerUnavailable", StatusCode: 503}

	if s.ShouldRetry(ActionPutRow, err, 0) {
		t.Fatalf("PutRow + OTSServerUnavailable/503 should not retry")
	}
	if !s.ShouldRetry(ActionGetRow, err, 0) {
		t.Fatalf("GetRow + OTSServerUnavailable/503 should retry")
	}
}

func TestDefaultRetryStrategy_AlwaysRetriableRegardlessOfIdempotency(t *testing.T) {
	s := NewDefaultRetryStrategy(3, 100*time.Millisecond, 0)
	for _, code := range []string{
		"OTSRowOperationConflict",
		"OTSNotEnoughCapacityUnit",
		"OTSTableNotReady",
		"OTSPartitionUnavailable",
		"OTSServerBusy",
	} {
		err := &ServerError{Code: code, StatusCode: 409}
		if !s.ShouldRetry(ActionPutRow, err, 0) {
			t.Fatalf("%s should retry even for non-idempotent PutRow", code)
		}
	}
}

func TestDefaultRetryStrategy_QuotaExhaustedMessageGated(t *testing.T) {
	s := NewDefaultRetryStrategy(3, 100*time.Millisecond, 0)
	retriable := &ServerError{Code: "OTSQuotaExhausted", Message: "Too frequent table operations."}
	if !s.ShouldRetry(ActionPutRow, retriable, 0) {
		t.Fatalf("OTSQuotaExhausted with the exact message should retry")
	}
	notRetriable := &ServerError{Code: "OTSQuotaExhausted", Message: "some other reason"}
	if s.ShouldRetry(ActionPutRow, notRetriable, 0) {
		t.Fatalf("OTSQuotaExhausted with a different message should not retry a non-idempotent action")
	}
}

func TestDefaultRetryStrategy_ClientErrorIdempotentOnly(t *testing.T) {
	s := NewDefaultRetryStrategy(3, 100*time.Millisecond, 0)
	err := newClientError("trace", "connection refused")
	if s.ShouldRetry(ActionPutRow, err, 0) {
		t.Fatalf("client error should not retry a non-idempotent action")
	}
	if !s.ShouldRetry(ActionGetRow, err, 0) {
		t.Fatalf("client error should retry an idempotent action")
	}
}

func TestDefaultRetryStrategy_HardCapOnRetries(t *testing.T) {
	s := NewDefaultRetryStrategy(2, 100*time.Millisecond, 0)
	err := &ServerError{Code: "OTSServerBusy"}
	if !s.ShouldRetry(ActionPutRow, err, 1) {
		t.Fatalf("attempt 1 of 2 should still be retriable")
	}
	if s.ShouldRetry(ActionPutRow, err, 2) {
		t.Fatalf("attempt 2 of 2 should have hit the hard cap")
	}
}

func TestDefaultRetryStrategy_ExponentialBackoff(t *testing.T) {
	s := NewDefaultRetryStrategy(10, 100*time.Millisecond, 0)
	want := []time.Duration{100, 200, 400, 800}
	for i, w := range want {
		got := s.NextPause(i + 1)
		if got != w*time.Millisecond {
			t.Fatalf("NextPause(%d) = %v, want %v", i+1, got, w*time.Millisecond)
		}
	}
}

func TestDefaultRetryStrategy_BackoffCeiling(t *testing.T) {
	s := NewDefaultRetryStrategy(10, 100*time.Millisecond, 250*time.Millisecond)
	if got := s.NextPause(4); got != 250*time.Millisecond {
		t.Fatalf("NextPause(4) = %v, want ceiling 250ms", got)
	}
}

func TestDefaultRetryStrategy_ClonePreservesRetries(t *testing.T) {
	s := NewDefaultRetryStrategy(3, 10*time.Millisecond, 0)
	clone := s.Clone()
	if clone.Retries() != s.Retries() {
		t.Fatalf("clone should preserve Retries()")
	}
}

func TestNoRetryStrategy_NeverRetries(t *testing.T) {
	var s NoRetryStrategy
	if s.ShouldRetry(ActionGetRow, &ServerError{Code: "OTSServerBusy"}, 0) {
		t.Fatalf("NoRetryStrategy should never retry")
	}
}
