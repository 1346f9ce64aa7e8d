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

import "errors"

// Domain validation errors
var (
	// ErrInvalidClassification indicates a Classification failed validation.
	ErrInvalidClassification = errors.New("invalid classification")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMissingTopic indicates the Topic field is empty.
	ErrMissingTopic = errors.New("topic cannot be empty")

	// ErrMissingSentiment indicates the Sentiment field is empty.
	ErrMissingSentiment = errors.New("sentiment cannot be empty")

	// ErrMissingPriority indicates the Priority field is empty.
	ErrMissingPriority = errors.New("priority cannot be empty")

	// ErrUnknownSentiment indicates a Sentiment outside the recognized set.
	ErrUnknownSentiment = errors.New("unknown sentiment")

	// ErrUnknownPriority indicates a Priority outside P0, P1 and P2.
	ErrUnknownPriority = errors.New("unknown priority")

	// ErrConfidenceOutOfRange indicates a confidence outside [0, 1].
	ErrConfidenceOutOfRange = errors.New("confidence must be between 0 and 1")

	// ErrEmptyContent indicates the document Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
