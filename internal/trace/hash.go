package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainCall separates call hashes from any other hash the tool computes.
const DomainCall = "retrace/call/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CallID computes the content-addressed ID of a call. Two calls with the
// same number, target, arguments and return value share an ID; the store
// uses it to make re-importing a trace idempotent.
func CallID(c Call) (string, error) {
	canonical, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("CallID: %w", err)
	}
	return hashWithDomain(DomainCall, canonical), nil
}

// MustCallID is like CallID but panics on error.
// Use only in tests or when the call is known to be encodable.
func MustCallID(c Call) string {
	id, err := CallID(c)
	if err != nil {
		panic(err)
	}
	return id
}
