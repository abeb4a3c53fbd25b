package engine

import "math"

// cosine returns the cosine similarity of a and b in [-1, 1]. A zero-norm
// vector on either side scores 0 instead of dividing by zero; degenerate
// embeddings are treated as "no signal", not as a fault.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
