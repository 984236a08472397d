package tablestore

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
)

// signRequest builds the canonical string for (action, method, headers)
// per spec.md §4.5.d and returns its base64(HMAC-SHA1(secret, ·))
// signature. Structurally adapted from the teacher's S3 request signer
// (pkg/misc/amazon/s3/auth.go): build a canonical newline-joined string
// over a fixed/sorted subset of headers, HMAC it, base64-encode.
//
// Canonical string:
//
//	"/" + action + "\n" + method + "\n\n" +
//	for each x-ots-* header, ascending by name: name + ":" + value + "\n"
func signRequest(secret, action, method string, headers map[string]string) string {
	cs := canonicalString(action, method, headers)
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(cs))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func canonicalString(action, method string, headers map[string]string) string {
	var buf bytes.Buffer
	buf.WriteByte('/')
	buf.WriteString(action)
	buf.WriteByte('\n')
	buf.WriteString(method)
	buf.WriteString("\n\n")

	names := make([]string, 0, len(headers))
	for name := range headers {
		if hasOTSPrefix(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(':')
		buf.WriteString(headers[name])
		buf.WriteByte('\n')
	}
	return buf.String()
}

func hasOTSPrefix(name string) bool {
	const prefix = "x-ots-"
	if len(name) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := name[i], prefix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
