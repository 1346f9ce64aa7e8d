// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"strings"
)

// ValidateClassification validates a Classification according to domain rules.
//
// Validation rules:
//   - Topic, Sentiment and Priority must not be empty
//   - Sentiment and Priority must be recognized values
//   - Confidence must lie in [0, 1]
//
// NOT validated:
//   - topic membership (unrecognized topics are routed, not rejected)
func ValidateClassification(c *Classification) error {
	if c == nil {
		return fmt.Errorf("%w: classification is nil", ErrInvalidClassification)
	}

	if strings.TrimSpace(string(c.Topic)) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClassification, ErrMissingTopic)
	}

	if strings.TrimSpace(string(c.Sentiment)) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClassification, ErrMissingSentiment)
	}
	if !c.Sentiment.Known() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidClassification, ErrUnknownSentiment, c.Sentiment)
	}

	if strings.TrimSpace(string(c.Priority)) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidClassification, ErrMissingPriority)
	}
	if !c.Priority.Known() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidClassification, ErrUnknownPriority, c.Priority)
	}

	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidClassification, ErrConfidenceOutOfRange, c.Confidence)
	}

	return nil
}

// ValidateDocument validates a Document before it is embedded and stored.
//
// Validation rules:
//   - Text must not be blank
//
// NOT validated (populated by the store):
//   - ID (derived from content when empty)
//   - Vector
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}
