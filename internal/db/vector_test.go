package db

import (
	"math"
	"testing"
)

func TestEncodeVector_Layout(t *testing.T) {
	b := EncodeVector([]float32{1})
	// 1.0 as float32 is 0x3f800000, little-endian.
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if string(b) != string(want) {
		t.Errorf("EncodeVector(1) = %x, want %x", b, want)
	}
}

func TestDecodeVector(t *testing.T) {
	in := []float32{0.25, -1.5, float32(math.Pi)}
	out, err := DecodeVector(EncodeVector(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}

func TestDistanceToSimilarity(t *testing.T) {
	tests := []struct {
		d, want float64
	}{
		{0, 1},
		{0.25, 0.75},
		{1, 0},
		{1.7, 0},
		{-0.1, 1},
	}
	for _, tt := range tests {
		if got := DistanceToSimilarity(tt.d); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DistanceToSimilarity(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
