// Package tickets loads support tickets from newline-delimited JSON.
//
// Each non-blank line holds one object with "id", "subject" and "body"
// fields. Unknown fields are ignored.
package tickets
