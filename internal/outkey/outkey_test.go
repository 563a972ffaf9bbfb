package outkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		sender    string
		shortID   string
		wantDir   string
		wantFile  string
	}{
		{
			name:      "plain message",
			timestamp: 1700000000,
			sender:    "521555",
			shortID:   "q83vEjRWeJA",
			wantDir:   "2023-11-14",
			wantFile:  "521555-22-13-20-q83vEjRWeJA.json",
		},
		{
			name:      "midnight boundary",
			timestamp: 1699920000,
			sender:    "15550100",
			shortID:   "AAAAAAAAAAA",
			wantDir:   "2023-11-14",
			wantFile:  "15550100-00-00-00-AAAAAAAAAAA.json",
		},
		{
			name:      "epoch",
			timestamp: 0,
			sender:    "1",
			shortID:   "x",
			wantDir:   "1970-01-01",
			wantFile:  "1-00-00-00-x.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := Build(tt.timestamp, tt.sender, tt.shortID)
			assert.Equal(t, tt.wantDir, key.Directory)
			assert.Equal(t, tt.wantFile, key.Filename)
		})
	}
}

func TestBuildIdempotent(t *testing.T) {
	// Redelivery recomputes the key; both computations must agree exactly.
	first := Build(1700000000, "521555", "q83vEjRWeJA")
	second := Build(1700000000, "521555", "q83vEjRWeJA")

	assert.Equal(t, first, second)
}

func TestObject(t *testing.T) {
	key := Build(1700000000, "521555", "abc")
	assert.Equal(t, "2023-11-14/521555-22-13-20-abc.json", key.Object())
}
