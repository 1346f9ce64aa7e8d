package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/triage/ai/local"
	"github.com/poiesic/triage/ai/mock"
	"github.com/poiesic/triage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, primary *mock.MockClassifier, opts ...Option) *Classifier {
	t.Helper()
	var c *Classifier
	var err error
	if primary == nil {
		c, err = New(nil, opts...)
	} else {
		c, err = New(primary, opts...)
	}
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

func TestClassify_RulesOnly(t *testing.T) {
	c := newClassifier(t, nil)
	assert.Equal(t, StrategyRules, c.Strategy())

	got := c.Classify(context.Background(), "Production is down, 500 errors everywhere, urgent!")
	assert.Equal(t, core.PriorityP0, got.Priority)
	assert.Equal(t, local.RuleConfidence, got.Confidence)
}

func TestClassify_RuleClassifierAsPrimary(t *testing.T) {
	c, err := New(local.NewRuleClassifier())
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, StrategyRules, c.Strategy())
}

func TestClassify_ModelResult(t *testing.T) {
	primary := mock.NewMockClassifier()
	primary.Result = core.Classification{
		Topic:      core.TopicLineage,
		Sentiment:  core.SentimentCurious,
		Priority:   core.PriorityP2,
		Confidence: 0.87,
	}
	c := newClassifier(t, primary)
	assert.Equal(t, StrategyModel, c.Strategy())

	got := c.Classify(context.Background(), "anything")
	assert.Equal(t, primary.Result, got)
	assert.Equal(t, 1, primary.CallCount())
}

func TestClassify_FallbackOnError(t *testing.T) {
	primary := mock.NewMockClassifier()
	primary.ClassifyFunc = func(ctx context.Context, text string) (core.Classification, error) {
		return core.Classification{}, errors.New("connection refused")
	}
	c := newClassifier(t, primary)

	got := c.Classify(context.Background(), "How do I add a new column in Atlan? Need steps.")
	assert.Equal(t, core.TopicHowTo, got.Topic)
	assert.Equal(t, local.RuleConfidence, got.Confidence)
	assert.Equal(t, 1, primary.CallCount(), "no retries")
}

func TestClassify_FallbackOnIncompleteResult(t *testing.T) {
	primary := mock.NewMockClassifier()
	primary.Result = core.Classification{Topic: core.TopicSSO}
	c := newClassifier(t, primary)

	got := c.Classify(context.Background(), "Okta login broken")
	assert.Equal(t, core.TopicSSO, got.Topic)
	assert.Equal(t, core.SentimentNeutral, got.Sentiment)
	assert.Equal(t, core.PriorityP2, got.Priority)
	assert.Equal(t, local.RuleConfidence, got.Confidence)
}

func TestClassify_FallbackOnUnknownLabels(t *testing.T) {
	tests := []struct {
		name   string
		result core.Classification
	}{
		{
			name: "priority outside P0-P2",
			result: core.Classification{
				Topic:      core.TopicProduct,
				Sentiment:  core.SentimentNeutral,
				Priority:   "High",
				Confidence: 0.9,
			},
		},
		{
			name: "unrecognized sentiment",
			result: core.Classification{
				Topic:      core.TopicProduct,
				Sentiment:  "Happy",
				Priority:   core.PriorityP1,
				Confidence: 0.9,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := mock.NewMockClassifier()
			primary.Result = tt.result
			c := newClassifier(t, primary)

			got := c.Classify(context.Background(), "Production is down urgent")
			assert.Equal(t, core.PriorityP0, got.Priority)
			assert.Equal(t, core.SentimentFrustrated, got.Sentiment)
			assert.Equal(t, local.RuleConfidence, got.Confidence)
		})
	}
}

func TestClassify_UnknownTopicPassesThrough(t *testing.T) {
	primary := mock.NewMockClassifier()
	primary.Result = core.Classification{
		Topic:      "Billing",
		Sentiment:  core.SentimentNeutral,
		Priority:   core.PriorityP2,
		Confidence: 0.7,
	}
	c := newClassifier(t, primary)

	got := c.Classify(context.Background(), "invoice question")
	assert.Equal(t, core.Topic("Billing"), got.Topic)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	primary := mock.NewMockClassifier()
	primary.ClassifyFunc = func(ctx context.Context, text string) (core.Classification, error) {
		return core.Classification{
			Topic:      core.Topic(text),
			Sentiment:  core.SentimentNeutral,
			Priority:   core.PriorityP2,
			Confidence: 0.5,
		}, nil
	}
	c := newClassifier(t, primary, WithPoolSize(4))

	tickets := make([]core.Ticket, 50)
	for i := range tickets {
		tickets[i] = core.Ticket{ID: fmt.Sprintf("T-%d", i), Body: fmt.Sprintf("body-%d", i)}
	}

	results, err := c.ClassifyAll(context.Background(), tickets)
	require.NoError(t, err)
	require.Len(t, results, len(tickets))
	for i, r := range results {
		assert.Equal(t, tickets[i].ID, r.Ticket.ID)
		assert.Equal(t, core.Topic(fmt.Sprintf("body-%d", i)), r.Classification.Topic)
	}
	assert.Equal(t, len(tickets), primary.CallCount())
}

func TestClassifyAll_Empty(t *testing.T) {
	c := newClassifier(t, nil)
	results, err := c.ClassifyAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClassifyAll_AfterRelease(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.Release()

	_, err = c.ClassifyAll(context.Background(), []core.Ticket{{ID: "T-1", Body: "x"}})
	assert.ErrorIs(t, err, ErrPoolReleased)
}

func TestWithLogger_Nil(t *testing.T) {
	c := newClassifier(t, nil, WithLogger(nil))
	assert.NotNil(t, c.logger)
}
