package tracker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_Tracks(t *testing.T) {
	var info Info
	require.NoError(t, json.Unmarshal(fixture(t), &info))

	tests := []struct {
		source   string
		expected bool
	}{
		{source: "rust-smallvec", expected: true},
		{source: "rust-tokio", expected: true},
		{source: "rust-serde", expected: false},
		{source: "smallvec", expected: false},
		{source: "", expected: false},
	}

	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			assert.Equal(t, test.expected, info.Tracks(test.source))
		})
	}
}
