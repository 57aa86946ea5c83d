package picking

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestLineDone(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want bool
	}{
		{"collected equals ordered", Line{QtyOrdered: 10, QtyCollected: 10}, true},
		{"within tolerance", Line{QtyOrdered: 10, QtyCollected: 9.9999995}, true},
		{"clearly short", Line{QtyOrdered: 10, QtyCollected: 9.9}, false},
		{"nothing collected", Line{QtyOrdered: 10}, false},
		{"zero ordered is vacuously done", Line{QtyOrdered: 0, QtyCollected: 0}, true},
		{"over-collected", Line{QtyOrdered: 3, QtyCollected: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineDone(tt.line); got != tt.want {
				t.Errorf("LineDone(%+v) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLineBucket(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want Bucket
	}{
		{"incomplete", Line{QtyOrdered: 10, QtyCollected: 3}, BucketIncomplete},
		{"complete", Line{QtyOrdered: 10, QtyCollected: 10}, BucketComplete},
		{"removed", Line{QtyOrdered: 10, QtyCollected: 3, Removed: true}, BucketRemoved},
		{"removed wins over complete", Line{QtyOrdered: 2, QtyCollected: 2, Removed: true}, BucketRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineBucket(tt.line); got != tt.want {
				t.Errorf("LineBucket(%+v) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLineDelta(t *testing.T) {
	tests := []struct {
		name    string
		line    Line
		want    float64
		present bool
	}{
		{"no baseline", Line{QtyOrdered: 5}, 0, false},
		{"unchanged", Line{QtyOrdered: 5, BaselineQtyOrdered: fptr(5)}, 0, false},
		{"increase", Line{QtyOrdered: 7, BaselineQtyOrdered: fptr(5)}, 2, true},
		{"decrease", Line{QtyOrdered: 4, BaselineQtyOrdered: fptr(5)}, -1, true},
		{"added line counts in full", Line{QtyOrdered: 4, Added: true}, 4, true},
		{"sub-tolerance change suppressed", Line{QtyOrdered: 5.0000001, BaselineQtyOrdered: fptr(5)}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := LineDelta(tt.line)
			if present != tt.present {
				t.Fatalf("LineDelta(%+v) present = %v, want %v", tt.line, present, tt.present)
			}
			if present && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LineDelta(%+v) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
