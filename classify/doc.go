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

// Package classify assigns a topic, sentiment, priority and confidence to
// tickets and free-form queries.
//
// A Classifier wraps a primary strategy, usually the hosted model from
// ai/openai, and answers with the keyword rules from ai/local whenever the
// primary call errors, returns malformed output, or is not configured.
// Callers therefore never see a classification error.
//
// # Usage
//
//	classifier, err := classify.New(provider.Classifier())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer classifier.Release()
//
//	result := classifier.Classify(ctx, "Okta SSO is failing for all users")
//	batch, err := classifier.ClassifyAll(ctx, tickets)
package classify
