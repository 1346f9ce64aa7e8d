// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Classifier,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	classifier := mock.NewMockClassifier()
//	classifier.ClassifyFunc = func(ctx context.Context, text string) (core.Classification, error) {
//	    return core.Classification{}, errors.New("service unavailable")
//	}
//
//	// Check call counts
//	count := classifier.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockClassifier: Returns a fixed Product/Neutral/P2 classification
//   - MockProvider: Aggregates mock embedder and classifier
//
// Call counters are atomic, so the mocks are safe under concurrent classification.
package mock
