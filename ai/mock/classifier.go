package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/triage/core"
)

// MockClassifier is a test double for ai.Classifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, returns Result.
	ClassifyFunc func(ctx context.Context, text string) (core.Classification, error)

	// Result is the fixed classification returned when ClassifyFunc is nil.
	Result core.Classification

	callCount atomic.Int64
}

// NewMockClassifier creates a mock classifier that reports every text as a
// neutral P2 Product question with confidence 0.9.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{
		Result: core.Classification{
			Topic:      core.TopicProduct,
			Sentiment:  core.SentimentNeutral,
			Priority:   core.PriorityP2,
			Confidence: 0.9,
		},
	}
}

// Classify returns the injected or fixed classification.
func (m *MockClassifier) Classify(ctx context.Context, text string) (core.Classification, error) {
	m.callCount.Add(1)

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}
	return m.Result, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom function.
func (m *MockClassifier) Reset() {
	m.callCount.Store(0)
	m.ClassifyFunc = nil
}
