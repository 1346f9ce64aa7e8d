package openai

import "strings"

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// quoteSafe keeps ticket text from closing the ''' delimiter in the prompt.
func quoteSafe(s string) string {
	return strings.ReplaceAll(s, "'''", "' ' '")
}
