package db

import (
	"encoding/binary"
	"errors"
	"math"
)

// EncodeVector packs v as little-endian float32, the FT.SEARCH BLOB layout.
func EncodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector is the inverse of EncodeVector.
func DecodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, errors.New("vector blob length is not a multiple of 4")
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// DistanceToSimilarity converts a cosine distance into a similarity clamped to [0, 1].
func DistanceToSimilarity(d float64) float64 {
	return min(1, max(0, 1.0-d))
}
