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

package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var (
	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("model returned no choices")

	// ErrMalformedResponse indicates the model output could not be parsed
	// as a classification, even after recovery.
	ErrMalformedResponse = errors.New("malformed classification response")

	// ErrMissingCredential indicates the hosted provider was requested without an API key.
	ErrMissingCredential = errors.New("openai: API key is required")
)

// Classifier classifies ticket text with a chat completion model.
// Each call makes exactly one request; failures are returned to the caller.
type Classifier struct {
	client      llms.Model
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ClassifierModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	return NewClassifierWithModel(client, config.MaxTokens, config.Temperature), nil
}

// NewClassifier creates a Classifier backed by the configured OpenAI-compatible endpoint.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// NewClassifierWithModel creates a Classifier around an existing langchaingo model.
func NewClassifierWithModel(model llms.Model, maxTokens int, temperature float64) *Classifier {
	return &Classifier{
		client:      model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      slog.Default().With("component", "openai-classifier"),
	}
}

// Classify sends text to the model and parses its JSON answer.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Classification, error) {
	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(text)),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return core.Classification{}, fmt.Errorf("classify: %w", err)
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return core.Classification{}, ErrEmptyResponse
	}

	result, err := parseClassification(response.Choices[0].Content)
	if err != nil {
		c.logger.Warn("error parsing classifier response",
			"response", response.Choices[0].Content,
			"err", err)
		return core.Classification{}, err
	}

	c.logger.Debug("classified text",
		"topic", result.Topic,
		"sentiment", result.Sentiment,
		"priority", result.Priority,
		"confidence", result.Confidence)
	return result, nil
}
