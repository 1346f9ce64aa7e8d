package local

import "github.com/poiesic/triage/ai"

// Provider serves the keyword classifier and hash embedder. It is used when
// no hosted credential is configured.
type Provider struct {
	embedder   *HashEmbedder
	classifier *RuleClassifier
}

// NewProvider creates a local provider with DefaultDimension buckets.
func NewProvider() ai.AIProvider {
	return &Provider{
		embedder:   NewHashEmbedder(DefaultDimension),
		classifier: NewRuleClassifier(),
	}
}

func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *Provider) Classifier() ai.Classifier {
	return p.classifier
}

func (p *Provider) Close() error {
	return nil
}
