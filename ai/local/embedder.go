package local

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/poiesic/triage/core"
)

// DefaultDimension is the number of hash buckets used by HashEmbedder.
const DefaultDimension = 512

// HashEmbedder maps text to a term-frequency vector by hashing tokens into
// a fixed number of buckets. It needs no corpus preparation, so documents
// can be added one at a time, and it is fully deterministic.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a HashEmbedder with the given number of buckets.
// A non-positive dimension selects DefaultDimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// Name identifies the bucket count, since vectors of different sizes never compare.
func (e *HashEmbedder) Name() string {
	return fmt.Sprintf("local-hash-%d", e.dimension)
}

// Dimension returns the vector size.
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// EmbedText returns the unit-length term-frequency vector for text.
// Text without any tokens yields a zero vector.
func (e *HashEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts embeds each text in order.
func (e *HashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	vector := make([]float32, e.dimension)
	for _, token := range tokenizeAndFilter(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[h.Sum32()%uint32(e.dimension)]++
	}
	return core.NormalizeVector(vector)
}
