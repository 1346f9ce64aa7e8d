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

package openai

import "regexp"

var (
	// `, sentiment":` where the opening quote of a key was dropped.
	halfQuotedKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)":`)
	// `, sentiment:` with no quotes at all.
	bareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	// `"P2",}`
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON fixes the key quoting and trailing-comma mistakes models make
// when asked for a flat JSON object. Valid JSON comes back unchanged.
func repairJSON(s string) string {
	s = halfQuotedKey.ReplaceAllString(s, `$1"$2":`)
	s = bareKey.ReplaceAllString(s, `$1"$2":`)
	return trailingComma.ReplaceAllString(s, "$1")
}
