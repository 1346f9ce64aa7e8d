package openai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/triage/core"
)

// classificationResponse mirrors the JSON object the model is asked to emit.
type classificationResponse struct {
	Topic      string          `json:"topic"`
	Sentiment  string          `json:"sentiment"`
	Priority   string          `json:"priority"`
	Confidence json.RawMessage `json:"confidence"`
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseClassification decodes model output. If the raw text is not valid
// JSON it makes a single recovery attempt: strip code fences, cut out the
// outermost {...} span and repair unquoted keys.
func parseClassification(raw string) (core.Classification, error) {
	var resp classificationResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		recovered, ok := recoverJSON(raw)
		if !ok {
			return core.Classification{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		resp = classificationResponse{}
		if err := json.Unmarshal([]byte(recovered), &resp); err != nil {
			return core.Classification{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return resp.toClassification()
}

func recoverJSON(raw string) (string, bool) {
	candidate := jsonObjectPattern.FindString(stripCodeFence(raw))
	if candidate == "" {
		return "", false
	}
	return repairJSON(candidate), true
}

// toClassification canonicalizes enum values. An unknown topic is kept as
// reported so that it can be routed; an unknown sentiment or priority is an
// error.
func (r classificationResponse) toClassification() (core.Classification, error) {
	topic, _ := core.ParseTopic(r.Topic)
	sentiment, ok := core.ParseSentiment(r.Sentiment)
	if !ok {
		return core.Classification{}, fmt.Errorf("%w: sentiment %q", ErrMalformedResponse, r.Sentiment)
	}
	priority, ok := core.ParsePriority(r.Priority)
	if !ok {
		return core.Classification{}, fmt.Errorf("%w: priority %q", ErrMalformedResponse, r.Priority)
	}

	confidence, err := parseConfidence(r.Confidence)
	if err != nil {
		return core.Classification{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	result := core.Classification{
		Topic:      topic,
		Sentiment:  sentiment,
		Priority:   priority,
		Confidence: confidence,
	}
	if err := core.ValidateClassification(&result); err != nil {
		return core.Classification{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return result, nil
}

// parseConfidence accepts a JSON number or a numeric string. A missing
// confidence is reported as 0.
func parseConfidence(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("confidence %s is not a number", string(raw))
	}
	return v, nil
}
