package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/triage/core"
)

const systemPromptTemplate = `You are a classifier for customer support tickets.
Output only JSON with keys: topic, sentiment, priority, confidence.

Allowed topics: [%s]
Allowed sentiment: [%s]
Allowed priority: [%s]

Rules:
- P0 means production is down or blocked, P1 means significant impact, P2 is everything else.
- confidence is a number between 0 and 1.
- Do not include any preamble or explanation. Start with { and end with }.

Example:
Text: '''Production is down, 500 errors everywhere, urgent!'''
Output:
{"topic":"Product","sentiment":"Frustrated","priority":"P0","confidence":0.9}`

const userPromptTemplate = `Text: '''%s'''`

func buildSystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate,
		joinValues(core.Topics),
		joinValues(core.Sentiments),
		joinValues(core.Priorities))
}

func buildUserPrompt(text string) string {
	return fmt.Sprintf(userPromptTemplate, quoteSafe(text))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
