package pipeline

import (
	"testing"

	"github.com/theirongolddev/revdash/internal/model"
)

func TestSplit(t *testing.T) {
	records := sampleRecords()
	with, without := Split(records)

	if len(with) != len(records) {
		t.Fatalf("with = %d rows, want %d", len(with), len(records))
	}
	if len(without) != 3 {
		t.Fatalf("without = %d rows, want 3", len(without))
	}

	for _, r := range without {
		if r.State == model.UnknownState || r.County == model.UnknownCounty || r.Product == model.UnspecifiedProduct {
			t.Errorf("without view kept a sentinel row: %+v", r)
		}
	}

	// without is a subset of with, in order.
	j := 0
	for _, r := range with {
		if j < len(without) && r == without[j] {
			j++
		}
	}
	if j != len(without) {
		t.Error("without view is not an ordered subset of the with view")
	}
}

func TestSplit_Empty(t *testing.T) {
	with, without := Split(nil)
	if len(with) != 0 || len(without) != 0 {
		t.Errorf("Split(nil) = %d/%d rows, want 0/0", len(with), len(without))
	}
}
