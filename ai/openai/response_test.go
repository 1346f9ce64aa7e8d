package openai

import (
	"testing"

	"github.com/poiesic/triage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want core.Classification
	}{
		{
			name: "clean JSON",
			raw:  `{"topic":"SSO","sentiment":"Frustrated","priority":"P1","confidence":0.82}`,
			want: core.Classification{Topic: core.TopicSSO, Sentiment: core.SentimentFrustrated, Priority: core.PriorityP1, Confidence: 0.82},
		},
		{
			name: "case is normalized",
			raw:  `{"topic":"api/sdk","sentiment":"curious","priority":"p2","confidence":0.5}`,
			want: core.Classification{Topic: core.TopicAPISDK, Sentiment: core.SentimentCurious, Priority: core.PriorityP2, Confidence: 0.5},
		},
		{
			name: "code fence",
			raw:  "```json\n{\"topic\":\"Lineage\",\"sentiment\":\"Neutral\",\"priority\":\"P2\",\"confidence\":0.7}\n```",
			want: core.Classification{Topic: core.TopicLineage, Sentiment: core.SentimentNeutral, Priority: core.PriorityP2, Confidence: 0.7},
		},
		{
			name: "prose around object",
			raw:  "Sure! Here is the result:\n{\"topic\":\"Connector\",\"sentiment\":\"Angry\",\"priority\":\"P0\",\"confidence\":0.95}\nHope this helps.",
			want: core.Classification{Topic: core.TopicConnector, Sentiment: core.SentimentAngry, Priority: core.PriorityP0, Confidence: 0.95},
		},
		{
			name: "missing opening quote on key",
			raw:  `{"topic":"Glossary", sentiment":"Curious","priority":"P2","confidence":0.6}`,
			want: core.Classification{Topic: core.TopicGlossary, Sentiment: core.SentimentCurious, Priority: core.PriorityP2, Confidence: 0.6},
		},
		{
			name: "bare keys and trailing comma",
			raw:  `{topic: "Lineage", sentiment: "Neutral", priority: "P2", confidence: 0.7,}`,
			want: core.Classification{Topic: core.TopicLineage, Sentiment: core.SentimentNeutral, Priority: core.PriorityP2, Confidence: 0.7},
		},
		{
			name: "confidence as string",
			raw:  `{"topic":"Product","sentiment":"Neutral","priority":"P2","confidence":"0.4"}`,
			want: core.Classification{Topic: core.TopicProduct, Sentiment: core.SentimentNeutral, Priority: core.PriorityP2, Confidence: 0.4},
		},
		{
			name: "missing confidence",
			raw:  `{"topic":"Product","sentiment":"Neutral","priority":"P2"}`,
			want: core.Classification{Topic: core.TopicProduct, Sentiment: core.SentimentNeutral, Priority: core.PriorityP2},
		},
		{
			name: "unknown topic is preserved",
			raw:  `{"topic":" Billing ","sentiment":"Neutral","priority":"P2","confidence":0.8}`,
			want: core.Classification{Topic: "Billing", Sentiment: core.SentimentNeutral, Priority: core.PriorityP2, Confidence: 0.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClassification(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClassification_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"plain prose", "I think this is about SSO."},
		{"unrecoverable braces", "{topic: SSO, sentiment}"},
		{"missing topic", `{"sentiment":"Neutral","priority":"P2","confidence":0.5}`},
		{"missing priority", `{"topic":"SSO","sentiment":"Neutral","confidence":0.5}`},
		{"confidence out of range", `{"topic":"SSO","sentiment":"Neutral","priority":"P2","confidence":7}`},
		{"unknown priority", `{"topic":"SSO","sentiment":"Neutral","priority":"High","confidence":0.5}`},
		{"unknown sentiment", `{"topic":"SSO","sentiment":"Happy","priority":"P1","confidence":0.5}`},
		{"confidence not numeric", `{"topic":"SSO","sentiment":"Neutral","priority":"P2","confidence":"high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseClassification(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid JSON untouched", `{"a":"b"}`, `{"a":"b"}`},
		{"missing opening quote after comma", `{"a":"b", c":"d"}`, `{"a":"b", "c":"d"}`},
		{"missing opening quote after brace", `{a":"b"}`, `{"a":"b"}`},
		{"bare keys", `{topic: "SSO", priority :"P1"}`, `{"topic": "SSO", "priority":"P1"}`},
		{"trailing comma", `{"a":"b",}`, `{"a":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1}  `))
}

func TestBuildPrompts(t *testing.T) {
	system := buildSystemPrompt()
	for _, topic := range core.Topics {
		assert.Contains(t, system, string(topic))
	}
	assert.Contains(t, system, "Output only JSON with keys: topic, sentiment, priority, confidence.")
	assert.Contains(t, system, "Frustrated, Curious, Angry, Neutral")
	assert.Contains(t, system, "P0, P1, P2")

	user := buildUserPrompt("it's broken ''' really")
	assert.Equal(t, "Text: '''it's broken ' ' ' really'''", user)
}
