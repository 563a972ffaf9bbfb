package ident

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortIDDeterministic(t *testing.T) {
	id := "wamid.HBgLNTIxNTU1MDEwMjAzFQIAEhggQUJDREVGMDEyMzQ1Njc4OTg3NjU0MzIxMAA="

	first := ShortID(id)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ShortID(id))
	}
}

func TestShortIDStripsPrefix(t *testing.T) {
	body := "HBgLNTIxNTU1MDEwMjAzFQIAEhgg"

	assert.Equal(t, ShortID(body), ShortID(Prefix+body))
}

func TestShortIDFormat(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "prefixed padded", id: "wamid.HBgLNTIxNTU1MDEwMjAzFQIAEhgg=="},
		{name: "prefixed unpadded", id: "wamid.HBgLNTIxNTU1MDEwMjAzFQIAEhgg"},
		{name: "bare", id: "HBgLNTIxNTU1MDEwMjAzFQIAEhgg"},
		{name: "not base64 at all", id: "wamid.!!not-base64!!"},
		{name: "empty", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			short := ShortID(tt.id)

			// 8 bytes of hash encode to exactly 11 unpadded characters.
			require.Len(t, short, 11)

			decoded, err := base64.RawURLEncoding.DecodeString(short)
			require.NoError(t, err)
			assert.Len(t, decoded, 8)
		})
	}
}

func TestShortIDDistinguishesIDs(t *testing.T) {
	a := ShortID("wamid.HBgLNTIxNTU1MDEwMjAzFQIAEhggQQ==")
	b := ShortID("wamid.HBgLNTIxNTU1MDEwMjAzFQIAEhggQg==")

	assert.NotEqual(t, a, b)
}

func TestShortIDPaddingInsensitive(t *testing.T) {
	// The same decoded bytes must hash identically whether or not the wire
	// id carries base64 padding.
	padded := ShortID("wamid.QUJDRA==")
	unpadded := ShortID("wamid.QUJDRA")

	assert.Equal(t, padded, unpadded)
}
