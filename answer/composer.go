package answer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/docstore"
)

const (
	// NoDocsMessage is the answer when retrieval finds nothing.
	NoDocsMessage = "No relevant docs found."

	retrievalErrorFormat = "Error during retrieval: %v"
	routingFormat        = "This ticket has been classified as a '%s' issue and routed to the appropriate team."
)

// TicketClassifier classifies ticket text. Classification never fails;
// implementations degrade to a fallback strategy instead.
type TicketClassifier interface {
	Classify(ctx context.Context, text string) core.Classification
}

// Composer builds answers from classification, canned answers and retrieval.
type Composer struct {
	classifier TicketClassifier
	index      docstore.Index
	canned     map[core.Topic]Canned
	topK       int
	logger     *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithTopK sets how many documents are retrieved per answer.
// Default is docstore.DefaultTopK.
func WithTopK(topK int) Option {
	return func(c *Composer) error {
		if topK <= 0 {
			return fmt.Errorf("topK must be positive, got %d", topK)
		}
		c.topK = topK
		return nil
	}
}

// WithCannedAnswers replaces the canned answers. An empty map sends
// every known topic to retrieval.
func WithCannedAnswers(canned map[core.Topic]Canned) Option {
	return func(c *Composer) error {
		c.canned = maps.Clone(canned)
		if c.canned == nil {
			c.canned = map[core.Topic]Canned{}
		}
		return nil
	}
}

// NewComposer creates a Composer.
func NewComposer(classifier TicketClassifier, index docstore.Index, opts ...Option) (*Composer, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	c := &Composer{
		classifier: classifier,
		index:      index,
		canned:     DefaultCannedAnswers(),
		topK:       docstore.DefaultTopK,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "answer")
	return c, nil
}

// Canned returns the canned answer for topic, if any.
func (c *Composer) Canned(topic core.Topic) (Canned, bool) {
	canned, ok := c.canned[topic]
	return canned, ok
}

// Answer classifies query and composes the reply.
func (c *Composer) Answer(ctx context.Context, query string) core.Answer {
	return c.AnswerWithMonitor(ctx, query, nil)
}

// AnswerWithMonitor is Answer with callbacks at each step.
func (c *Composer) AnswerWithMonitor(ctx context.Context, query string, monitor Monitor) core.Answer {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	classification := c.classifier.Classify(ctx, query)
	monitor.AfterClassification(classification)

	answer := c.compose(ctx, query, classification, monitor)
	monitor.Finish(answer)
	return answer
}

// AnswerClassified composes the reply for a query that is already classified.
func (c *Composer) AnswerClassified(ctx context.Context, query string, classification core.Classification) core.Answer {
	return c.compose(ctx, query, classification, &noopMonitor{})
}

func (c *Composer) compose(ctx context.Context, query string, classification core.Classification, monitor Monitor) core.Answer {
	topic := classification.Topic

	if !topic.Known() {
		c.logger.Debug("routing unknown topic", "topic", topic)
		return core.Answer{
			Text:           fmt.Sprintf(routingFormat, topic),
			Classification: classification,
		}
	}

	if canned, ok := c.canned[topic]; ok {
		c.logger.Debug("using canned answer", "topic", topic)
		return core.Answer{
			Text:           canned.Text,
			Source:         canned.URL,
			Classification: classification,
		}
	}

	answer := c.retrieve(ctx, query, monitor)
	answer.Classification = classification
	return answer
}

// Retrieve answers query from the nearest documents alone, without
// classifying it.
func (c *Composer) Retrieve(ctx context.Context, query string) core.Answer {
	return c.retrieve(ctx, query, &noopMonitor{})
}

func (c *Composer) retrieve(ctx context.Context, query string, monitor Monitor) core.Answer {
	results, err := c.index.Query(ctx, query, c.topK)
	monitor.AfterRetrieval(results, err)
	if err != nil {
		c.logger.Error("retrieval failed", "err", err)
		return core.Answer{Text: fmt.Sprintf(retrievalErrorFormat, err)}
	}

	texts := make([]string, 0, len(results))
	sources := make([]string, 0, len(results))
	for _, result := range results {
		if result == nil || result.Document == nil {
			continue
		}
		if result.Document.Text != "" {
			texts = append(texts, result.Document.Text)
		}
		if source := result.Document.Source; source != "" && !slices.Contains(sources, source) {
			sources = append(sources, source)
		}
	}

	if len(texts) == 0 {
		return core.Answer{Text: NoDocsMessage}
	}

	answer := core.Answer{Text: strings.Join(texts, "\n\n")}
	if len(sources) > 0 {
		answer.Source = sources[0]
		answer.Sources = sources
	}
	return answer
}
