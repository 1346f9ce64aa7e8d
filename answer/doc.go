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

// Package answer composes replies to support tickets.
//
// A Composer classifies the ticket first. Topics with a canned answer get
// that answer and its documentation link. Other known topics are answered
// from the nearest documents in the knowledge base, and unknown topics get
// a routing message. Composing an answer never fails: retrieval errors
// become the answer text.
package answer
