package classify

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/ai/local"
	"github.com/poiesic/triage/core"
)

// ErrPoolReleased is returned by ClassifyAll after Release.
var ErrPoolReleased = errors.New("classifier pool released")

// Strategy names reported by Classifier.Strategy.
const (
	StrategyModel = "model"
	StrategyRules = "rules"
)

// Classifier runs a primary classification strategy and falls back to the
// keyword rules whenever the primary one fails. Classify therefore always
// yields a complete classification.
type Classifier struct {
	primary ai.Classifier
	rules   *local.RuleClassifier
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithPoolSize sets the worker pool size used by ClassifyAll.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *Classifier) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Classifier. A nil primary, or a primary that is itself the
// rule classifier, means keyword rules only.
func New(primary ai.Classifier, opts ...Option) (*Classifier, error) {
	if _, isRules := primary.(*local.RuleClassifier); isRules {
		primary = nil
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		primary: primary,
		rules:   local.NewRuleClassifier(),
		pool:    pool,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}
	c.logger = c.logger.With("component", "classifier")

	return c, nil
}

// Strategy reports which strategy Classify tries first.
func (c *Classifier) Strategy() string {
	if c.primary == nil {
		return StrategyRules
	}
	return StrategyModel
}

// Classify returns a classification for text. Model failures of any kind
// are logged and answered by the keyword rules; nothing is retried.
func (c *Classifier) Classify(ctx context.Context, text string) core.Classification {
	if c.primary == nil {
		return c.rules.Rules(text)
	}

	result, err := c.primary.Classify(ctx, text)
	if err == nil {
		err = core.ValidateClassification(&result)
	}
	if err != nil {
		c.logger.Warn("model classification failed, using keyword rules", "err", err)
		return c.rules.Rules(text)
	}
	return result
}

// Result pairs a ticket with its classification.
type Result struct {
	Ticket         core.Ticket
	Classification core.Classification
}

// ClassifyAll classifies tickets concurrently on the worker pool.
// Results are returned in input order.
func (c *Classifier) ClassifyAll(ctx context.Context, tickets []core.Ticket) ([]Result, error) {
	if c.pool == nil || c.pool.IsClosed() {
		return nil, ErrPoolReleased
	}

	results := make([]Result, len(tickets))
	var wg sync.WaitGroup
	for i, ticket := range tickets {
		i, ticket := i, ticket
		results[i].Ticket = ticket
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			results[i].Classification = c.Classify(ctx, ticket.Text())
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	c.logger.Debug("classified tickets", "count", len(tickets), "strategy", c.Strategy())
	return results, nil
}

// Release releases the worker pool.
// The classifier must not be used for ClassifyAll after calling Release.
func (c *Classifier) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
