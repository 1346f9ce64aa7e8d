package answer

import "github.com/poiesic/triage/core"

// Monitor provides hooks to observe how an answer is composed.
// The dashboard uses it to show the internal analysis of a ticket.
type Monitor interface {
	Start(query string)
	AfterClassification(classification core.Classification)
	AfterRetrieval(results []*core.ScoredDocument, err error)
	Finish(answer core.Answer)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                   {}
func (n *noopMonitor) AfterClassification(_ core.Classification)        {}
func (n *noopMonitor) AfterRetrieval(_ []*core.ScoredDocument, _ error) {}
func (n *noopMonitor) Finish(_ core.Answer)                             {}

// Trace records every step of a single composition.
type Trace struct {
	Query          string
	Classification core.Classification
	Retrieved      []*core.ScoredDocument
	RetrievalErr   error
	Answer         core.Answer
}

var _ Monitor = (*Trace)(nil)

func (t *Trace) Start(query string) {
	t.Query = query
}

func (t *Trace) AfterClassification(classification core.Classification) {
	t.Classification = classification
}

func (t *Trace) AfterRetrieval(results []*core.ScoredDocument, err error) {
	t.Retrieved = results
	t.RetrievalErr = err
}

func (t *Trace) Finish(answer core.Answer) {
	t.Answer = answer
}
