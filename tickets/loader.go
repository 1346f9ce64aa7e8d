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

package tickets

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/triage/core"
)

// DefaultPath is where the sample ticket set lives relative to the working directory.
const DefaultPath = "data/sample_tickets.jsonl"

// maxLineSize bounds a single ticket line.
const maxLineSize = 1 << 20

// ErrMalformedTicket indicates a line that is not a JSON object.
var ErrMalformedTicket = errors.New("malformed ticket")

// Load reads newline-delimited JSON tickets from r. Lines are trimmed and
// blank lines skipped. The first malformed line aborts the load with an
// error naming its line number.
func Load(r io.Reader) ([]core.Ticket, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var result []core.Ticket
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ticket core.Ticket
		if err := json.Unmarshal([]byte(line), &ticket); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedTicket, lineNo, err)
		}
		result = append(result, ticket)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tickets: line %d: %w", lineNo+1, err)
	}
	return result, nil
}

// LoadFile reads tickets from the NDJSON file at path.
func LoadFile(path string) ([]core.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Default().Debug("loaded tickets", "component", "tickets", "path", path, "count", len(result))
	return result, nil
}

// Find returns the ticket with the given ID.
func Find(all []core.Ticket, id string) (core.Ticket, bool) {
	for _, t := range all {
		if t.ID == id {
			return t, true
		}
	}
	return core.Ticket{}, false
}
