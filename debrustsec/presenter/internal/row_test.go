package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRows(t *testing.T) {
	expected := []Row{
		{
			Source:          "rust-smallvec",
			Version:         "1.6.0-1",
			AdvisoryID:      "RUSTSEC-2021-0003",
			Aliases:         []string{"CVE-2021-25900", "GHSA-43w2-9j62-hq99"},
			TrackedInDebian: "true",
			Title:           "Buffer overflow in SmallVec::insert_many",
			URL:             "https://github.com/servo/rust-smallvec/issues/252",
		},
		{
			Source:          "rust-tokio-1.2",
			Version:         "1.2.0-1",
			AdvisoryID:      "RUSTSEC-2021-0124",
			Aliases:         []string{},
			TrackedInDebian: "false",
			Title:           "Data race when sending and receiving after closing a `oneshot` channel",
		},
	}

	if d := cmp.Diff(expected, NewRows(GenerateMatches())); d != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", d)
	}
}

func TestNewRows_Empty(t *testing.T) {
	rows := NewRows(nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
