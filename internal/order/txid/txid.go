// Package txid generates buyer-facing transaction identifiers.
package txid

import (
	"crypto/rand"
	"strings"
)

const (
	// DefaultPrefix stamps account and manual orders with no
	// product-level prefix.
	DefaultPrefix = "TRX"
	// LinkPrefix stamps link orders.
	LinkPrefix = "LINK"

	suffixLen = 10
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// New returns "PREFIX-XXXXXXXXXX" with a random uppercase alphanumeric
// suffix. A blank prefix falls back to DefaultPrefix.
func New(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}

	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + "-" + string(buf)
}
