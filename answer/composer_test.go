package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/triage/ai/local"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/docstore"
	"github.com/poiesic/triage/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClassifier core.Classification

func (f fixedClassifier) Classify(_ context.Context, _ string) core.Classification {
	return core.Classification(f)
}

func classifiedAs(topic core.Topic) fixedClassifier {
	return fixedClassifier{Topic: topic, Sentiment: core.SentimentNeutral, Priority: core.PriorityP2, Confidence: 0.6}
}

type stubIndex struct {
	results []*core.ScoredDocument
	err     error
	calls   int
	topK    int
}

func (s *stubIndex) Add(_ context.Context, _ ...core.Document) error {
	return nil
}

func (s *stubIndex) Query(_ context.Context, _ string, topK int) ([]*core.ScoredDocument, error) {
	s.calls++
	s.topK = topK
	return s.results, s.err
}

func scored(id, text, source string, score float32) *core.ScoredDocument {
	return &core.ScoredDocument{Document: &core.Document{ID: id, Text: text, Source: source}, Score: score}
}

func TestNewComposer_Requirements(t *testing.T) {
	_, err := NewComposer(nil, &stubIndex{})
	assert.ErrorIs(t, err, ErrClassifierRequired)

	_, err = NewComposer(classifiedAs(core.TopicLineage), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewComposer(classifiedAs(core.TopicLineage), &stubIndex{}, WithTopK(0))
	assert.Error(t, err)
}

func TestComposer_CannedTopics(t *testing.T) {
	for topic, canned := range DefaultCannedAnswers() {
		t.Run(string(topic), func(t *testing.T) {
			index := &stubIndex{results: []*core.ScoredDocument{scored("a", "retrieved text", "https://x", 1)}}
			composer, err := NewComposer(classifiedAs(topic), index)
			require.NoError(t, err)

			answer := composer.Answer(context.Background(), "anything")
			assert.Equal(t, canned.Text, answer.Text)
			assert.Equal(t, canned.URL, answer.Source)
			assert.Equal(t, topic, answer.Classification.Topic)
			assert.Zero(t, index.calls)
		})
	}
}

func TestComposer_RetrievalTopics(t *testing.T) {
	tests := []struct {
		name       string
		results    []*core.ScoredDocument
		wantText   string
		wantSource string
		wantAll    []string
	}{
		{
			name:     "empty store",
			wantText: NoDocsMessage,
		},
		{
			name: "joins documents",
			results: []*core.ScoredDocument{
				scored("a", "first", "https://docs/a", 0.9),
				scored("b", "second", "", 0.5),
				scored("c", "third", "https://docs/a", 0.4),
			},
			wantText:   "first\n\nsecond\n\nthird",
			wantSource: "https://docs/a",
			wantAll:    []string{"https://docs/a"},
		},
		{
			name: "first non-empty source",
			results: []*core.ScoredDocument{
				scored("a", "first", "", 0.9),
				scored("b", "second", "https://docs/b", 0.5),
				scored("c", "third", "https://docs/c", 0.4),
			},
			wantText:   "first\n\nsecond\n\nthird",
			wantSource: "https://docs/b",
			wantAll:    []string{"https://docs/b", "https://docs/c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &stubIndex{results: tt.results}
			composer, err := NewComposer(classifiedAs(core.TopicLineage), index)
			require.NoError(t, err)

			answer := composer.Answer(context.Background(), "lineage question")
			assert.Equal(t, tt.wantText, answer.Text)
			assert.Equal(t, tt.wantSource, answer.Source)
			assert.Equal(t, tt.wantAll, answer.Sources)
			assert.Equal(t, core.TopicLineage, answer.Classification.Topic)
			assert.Equal(t, 1, index.calls)
			assert.Equal(t, docstore.DefaultTopK, index.topK)
		})
	}
}

func TestComposer_RetrievalError(t *testing.T) {
	index := &stubIndex{err: errors.New("store offline")}
	composer, err := NewComposer(classifiedAs(core.TopicConnector), index)
	require.NoError(t, err)

	answer := composer.Answer(context.Background(), "snowflake connector failing")
	assert.Equal(t, "Error during retrieval: store offline", answer.Text)
	assert.Empty(t, answer.Source)
}

func TestComposer_UnknownTopicRouted(t *testing.T) {
	index := &stubIndex{}
	composer, err := NewComposer(classifiedAs("Billing"), index)
	require.NoError(t, err)

	answer := composer.Answer(context.Background(), "invoice question")
	assert.Equal(t, "This ticket has been classified as a 'Billing' issue and routed to the appropriate team.", answer.Text)
	assert.Empty(t, answer.Source)
	assert.Zero(t, index.calls)
}

func TestComposer_CannedOverride(t *testing.T) {
	index := &stubIndex{results: []*core.ScoredDocument{scored("a", "retrieved", "src", 1)}}
	composer, err := NewComposer(classifiedAs(core.TopicHowTo), index,
		WithCannedAnswers(map[core.Topic]Canned{}),
		WithTopK(5))
	require.NoError(t, err)

	answer := composer.Answer(context.Background(), "how do I")
	assert.Equal(t, "retrieved", answer.Text)
	assert.Equal(t, 5, index.topK)

	_, ok := composer.Canned(core.TopicHowTo)
	assert.False(t, ok)
}

func TestComposer_Retrieve(t *testing.T) {
	index := &stubIndex{results: []*core.ScoredDocument{scored("a", "doc text", "src", 1)}}
	composer, err := NewComposer(classifiedAs(core.TopicHowTo), index)
	require.NoError(t, err)

	answer := composer.Retrieve(context.Background(), "how do I")
	assert.Equal(t, "doc text", answer.Text)
	assert.Equal(t, "src", answer.Source)
	assert.Equal(t, 1, index.calls)
}

func TestComposer_Trace(t *testing.T) {
	index := &stubIndex{results: []*core.ScoredDocument{scored("a", "doc text", "src", 1)}}
	composer, err := NewComposer(classifiedAs(core.TopicGlossary), index)
	require.NoError(t, err)

	trace := &Trace{}
	answer := composer.AnswerWithMonitor(context.Background(), "glossary import", trace)

	assert.Equal(t, "glossary import", trace.Query)
	assert.Equal(t, core.TopicGlossary, trace.Classification.Topic)
	assert.Len(t, trace.Retrieved, 1)
	assert.NoError(t, trace.RetrievalErr)
	assert.Equal(t, answer, trace.Answer)
}

func TestComposer_WithDocumentStore(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	store, err := docstore.NewStore(repo, local.NewHashEmbedder(0))
	require.NoError(t, err)
	docs, err := store.GetOrCreateCollection(context.Background(), docstore.DefaultCollection)
	require.NoError(t, err)

	composer, err := NewComposer(classifiedAs(core.TopicLineage), docs)
	require.NoError(t, err)

	answer := composer.Answer(context.Background(), "lineage for dbt models")
	assert.Equal(t, NoDocsMessage, answer.Text)
	assert.Empty(t, answer.Source)

	require.NoError(t, docs.Add(context.Background(), core.Document{
		ID:     "lineage",
		Text:   "Lineage for dbt models is parsed from the manifest",
		Source: "https://docs.example.com/lineage",
	}))

	answer = composer.Answer(context.Background(), "lineage for dbt models")
	assert.Contains(t, answer.Text, "dbt models")
	assert.Equal(t, "https://docs.example.com/lineage", answer.Source)
}
