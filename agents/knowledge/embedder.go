package knowledge

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// embeddingDims is the fixed dimensionality of document and query vectors.
const embeddingDims = 256

// embedder encodes text into a unit-length vector via feature hashing: each
// token is hashed into a dimension with a hash-derived sign. Deterministic
// across processes, which keeps search results reproducible in tests.
type embedder struct {
	dims int
}

func newEmbedder(dims int) *embedder {
	if dims <= 0 {
		dims = embeddingDims
	}
	return &embedder{dims: dims}
}

// Encode returns the normalized embedding of text. All-zero input (no
// tokens) encodes to the zero vector, which cosine treats as similarity 0.
func (e *embedder) Encode(text string) []float64 {
	vec := make([]float64, e.dims)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dims))
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	norm := floats.Norm(vec, 2)
	if norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

// cosine returns the cosine similarity of two unit vectors (the dot
// product, since Encode normalizes).
func cosine(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	if math.IsNaN(dot) {
		return 0
	}
	return dot
}

// tokenize lowercases and splits on any non-letter, non-digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
