package core

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for stored documents.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as a fixed-width hex string, the form used for document keys.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Topic is the product area a ticket is about.
type Topic string

const (
	TopicHowTo         Topic = "How-to"
	TopicProduct       Topic = "Product"
	TopicConnector     Topic = "Connector"
	TopicLineage       Topic = "Lineage"
	TopicAPISDK        Topic = "API/SDK"
	TopicSSO           Topic = "SSO"
	TopicGlossary      Topic = "Glossary"
	TopicBestPractices Topic = "Best practices"
	TopicSensitiveData Topic = "Sensitive data"
)

// Topics lists every recognized topic.
var Topics = []Topic{
	TopicHowTo,
	TopicProduct,
	TopicConnector,
	TopicLineage,
	TopicAPISDK,
	TopicSSO,
	TopicGlossary,
	TopicBestPractices,
	TopicSensitiveData,
}

// Sentiment is the emotional tone detected in a ticket.
type Sentiment string

const (
	SentimentFrustrated Sentiment = "Frustrated"
	SentimentCurious    Sentiment = "Curious"
	SentimentAngry      Sentiment = "Angry"
	SentimentNeutral    Sentiment = "Neutral"
)

// Sentiments lists every recognized sentiment.
var Sentiments = []Sentiment{
	SentimentFrustrated,
	SentimentCurious,
	SentimentAngry,
	SentimentNeutral,
}

// Priority is the urgency assigned to a ticket. P0 is the most urgent.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// Priorities lists every recognized priority.
var Priorities = []Priority{PriorityP0, PriorityP1, PriorityP2}

// Known reports whether t is one of the recognized topics.
func (t Topic) Known() bool {
	return slices.Contains(Topics, t)
}

// Known reports whether s is one of the recognized sentiments.
func (s Sentiment) Known() bool {
	return slices.Contains(Sentiments, s)
}

// Known reports whether p is one of the recognized priorities.
func (p Priority) Known() bool {
	return slices.Contains(Priorities, p)
}

// ParseTopic matches s against the recognized topics, ignoring case and surrounding space.
func ParseTopic(s string) (Topic, bool) {
	return parseEnum(s, Topics)
}

// ParseSentiment matches s against the recognized sentiments, ignoring case.
func ParseSentiment(s string) (Sentiment, bool) {
	return parseEnum(s, Sentiments)
}

// ParsePriority matches s against the recognized priorities, ignoring case.
func ParsePriority(s string) (Priority, bool) {
	return parseEnum(s, Priorities)
}

func parseEnum[T ~string](s string, values []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return T(s), false
}

// Ticket is a single customer support request.
type Ticket struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Text joins subject and body into the text handed to classifiers.
func (t Ticket) Text() string {
	return strings.TrimSpace(t.Subject + "\n" + t.Body)
}

// Classification is the triage record produced for a piece of text.
// Confidence is 0.6 for keyword rules and model-reported otherwise.
type Classification struct {
	Topic      Topic     `json:"topic"`
	Sentiment  Sentiment `json:"sentiment"`
	Priority   Priority  `json:"priority"`
	Confidence float64   `json:"confidence"`
}

// Document is a unit of knowledge-base text stored in a collection.
type Document struct {
	ID         string
	Text       string
	Source     string
	Metadata   map[string]string // Optional metadata (e.g., "path", "fetched_at")
	Vector     []float32         // Embedding vector, L2-normalized before storage
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ScoredDocument is a document returned from a similarity query.
type ScoredDocument struct {
	Document *Document
	Score    float32
}

// CollectionInfo describes a named document collection.
type CollectionInfo struct {
	Name      string
	Embedder  string // Name of the embedder that produced the stored vectors
	Dimension int    // Vector dimension, 0 until the first document is embedded
	CreatedAt time.Time
}

// Answer is the response composed for a user query.
type Answer struct {
	Text           string         `json:"answer"`
	Source         string         `json:"source"`
	Sources        []string       `json:"sources,omitempty"`
	Classification Classification `json:"classification"`
}
