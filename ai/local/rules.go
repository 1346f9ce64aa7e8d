// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package local

import (
	"context"
	"strings"

	"github.com/poiesic/triage/core"
)

// RuleConfidence is the confidence reported for every keyword classification.
const RuleConfidence = 0.6

type topicRule struct {
	topic    core.Topic
	keywords []string
}

// topicRules are checked in order; the first set with a match wins.
// Text matching none of them is a Product question.
var topicRules = []topicRule{
	{core.TopicHowTo, []string{"how do", "how to", "how can i", "steps", "add a new", "tutorial"}},
	{core.TopicConnector, []string{"connector", "snowflake", "fivetran", "dbt", "tableau", "crawl"}},
	{core.TopicLineage, []string{"lineage"}},
	{core.TopicAPISDK, []string{"api", "endpoint", "sdk", "requests"}},
	{core.TopicSSO, []string{"sso", "okta", "saml"}},
	{core.TopicGlossary, []string{"glossary"}},
	{core.TopicBestPractices, []string{"best practice", "catalog hygiene"}},
	{core.TopicSensitiveData, []string{"sensitive", "pii", "personal data"}},
}

var (
	angryKeywords      = []string{"infuriating", "angry", "outrage", "unacceptable"}
	frustratedKeywords = []string{"frustrated", "urgent", "blocked", "please help", "can't", "cannot"}
	curiousKeywords    = []string{"curious", "wonder", "how many", "what is", "interested"}

	p0Keywords = []string{"urgent", "production", "p0", "down", "not working", "500", "401", "critical", "asap"}
	p1Keywords = []string{"soon", "p1", "impact", "error", "fail"}
)

// RuleClassifier assigns labels by case-insensitive substring matching
// against fixed keyword sets. It never fails and makes no network calls.
type RuleClassifier struct{}

// NewRuleClassifier creates a RuleClassifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify implements ai.Classifier. The error is always nil.
func (r *RuleClassifier) Classify(ctx context.Context, text string) (core.Classification, error) {
	return r.Rules(text), nil
}

// Rules classifies text without a context.
func (r *RuleClassifier) Rules(text string) core.Classification {
	t := strings.ToLower(text)
	return core.Classification{
		Topic:      ruleTopic(t),
		Sentiment:  ruleSentiment(t),
		Priority:   rulePriority(t),
		Confidence: RuleConfidence,
	}
}

func ruleTopic(t string) core.Topic {
	for _, rule := range topicRules {
		if containsAny(t, rule.keywords) {
			return rule.topic
		}
	}
	return core.TopicProduct
}

func ruleSentiment(t string) core.Sentiment {
	switch {
	case containsAny(t, angryKeywords):
		return core.SentimentAngry
	case containsAny(t, frustratedKeywords):
		return core.SentimentFrustrated
	case containsAny(t, curiousKeywords):
		return core.SentimentCurious
	default:
		return core.SentimentNeutral
	}
}

func rulePriority(t string) core.Priority {
	switch {
	case containsAny(t, p0Keywords):
		return core.PriorityP0
	case containsAny(t, p1Keywords):
		return core.PriorityP1
	default:
		return core.PriorityP2
	}
}

func containsAny(t string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
