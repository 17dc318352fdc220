// Package integrity implements best-effort digest verification of
// downloaded artifacts against the expected value carried in the
// notification.
package integrity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"
)

// Status is the outcome of a verification attempt.
type Status string

const (
	// StatusSkipped means no verification was performed, either because
	// the notification carried no integrity block or because the
	// declared method is not a supported algorithm. Not an error.
	StatusSkipped Status = "SKIPPED"

	// StatusMatch means the recomputed digest equals the expected value.
	StatusMatch Status = "MATCH"

	// StatusMismatch means the digests differ. The artifact is still
	// persisted; a mismatch is an observability signal, not a failure.
	StatusMismatch Status = "MISMATCH"
)

// Result describes one verification attempt.
type Result struct {
	Status   Status
	Method   string
	Expected string
	Actual   string // base64 digest of the downloaded bytes, empty when skipped
	Reason   string // why verification was skipped
}

// hashers is the closed set of supported digest algorithms. An unknown
// method name skips verification instead of failing the download.
var hashers = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Verify digests data with the declared method, base64-encodes the
// digest, and compares it byte-for-byte (case-sensitive) to expected.
// An empty method means the notification had no integrity block.
func Verify(data []byte, method, expected string) Result {
	if method == "" || expected == "" {
		return Result{
			Status: StatusSkipped,
			Method: method,
			Reason: "no integrity metadata in notification",
		}
	}

	newHash, ok := hashers[method]
	if !ok {
		return Result{
			Status:   StatusSkipped,
			Method:   method,
			Expected: expected,
			Reason:   "unsupported hash method",
		}
	}

	h := newHash()
	h.Write(data)
	actual := base64.StdEncoding.EncodeToString(h.Sum(nil))

	result := Result{
		Method:   method,
		Expected: expected,
		Actual:   actual,
	}

	if actual == expected {
		result.Status = StatusMatch
	} else {
		result.Status = StatusMismatch
	}

	return result
}
