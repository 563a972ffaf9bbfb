// Package ident derives short, stable identifiers from platform message ids.
// The derivation is a pure function of the id, which is what makes the
// pipeline's output keys idempotent under webhook redelivery.
package ident

import (
	"encoding/base64"
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Prefix carried by message ids on the wire.
const Prefix = "wamid."

// ShortID strips the id prefix, base64-decodes the body, hashes the decoded
// bytes with XXH64 and re-encodes the 8 big-endian bytes URL-safe without
// padding. XXH64 is pinned so the same id maps to the same short id across
// processes and runtimes.
func ShortID(messageID string) string {
	body := strings.TrimPrefix(messageID, Prefix)

	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
	}
	if err != nil {
		// An id that is not valid base64 is hashed as-is; a message is
		// never dropped over an undecodable id.
		decoded = []byte(body)
	}

	sum := xxhash.Sum64(decoded)

	// Big-endian two's complement, matching a signed 64-bit rendering of
	// the hash.
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	return base64.RawURLEncoding.EncodeToString(buf[:])
}
