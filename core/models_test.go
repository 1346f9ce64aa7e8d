package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestID_String(t *testing.T) {
	if got := ID(255).String(); got != "00000000000000ff" {
		t.Errorf("ID.String() = %q, want %q", got, "00000000000000ff")
	}
	if got := IDFromContent("abc").String(); len(got) != 16 {
		t.Errorf("ID.String() length = %d, want 16", len(got))
	}
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		input  string
		want   Topic
		wantOk bool
	}{
		{"How-to", TopicHowTo, true},
		{"how-to", TopicHowTo, true},
		{"  api/sdk ", TopicAPISDK, true},
		{"BEST PRACTICES", TopicBestPractices, true},
		{"sensitive data", TopicSensitiveData, true},
		{"Billing", Topic("Billing"), false},
		{"", Topic(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTopic(tt.input)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("ParseTopic(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestParseSentimentAndPriority(t *testing.T) {
	if s, ok := ParseSentiment("angry"); !ok || s != SentimentAngry {
		t.Errorf("ParseSentiment(angry) = (%q, %v)", s, ok)
	}
	if _, ok := ParseSentiment("elated"); ok {
		t.Errorf("ParseSentiment(elated) should not be recognized")
	}
	if p, ok := ParsePriority("p0"); !ok || p != PriorityP0 {
		t.Errorf("ParsePriority(p0) = (%q, %v)", p, ok)
	}
	if _, ok := ParsePriority("P3"); ok {
		t.Errorf("ParsePriority(P3) should not be recognized")
	}
}

func TestTopic_Known(t *testing.T) {
	for _, topic := range Topics {
		if !topic.Known() {
			t.Errorf("%q should be known", topic)
		}
	}
	if Topic("how-to").Known() {
		t.Errorf("Known() should be case-sensitive")
	}
	if Topic("Billing").Known() {
		t.Errorf("Billing should not be known")
	}
}

func TestTicket_Text(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   string
	}{
		{"subject and body", Ticket{Subject: "SSO broken", Body: "Okta login fails"}, "SSO broken\nOkta login fails"},
		{"body only", Ticket{Body: "Okta login fails"}, "Okta login fails"},
		{"subject only", Ticket{Subject: "Lineage question"}, "Lineage question"},
		{"empty", Ticket{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
