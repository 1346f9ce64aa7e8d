package answer

import (
	"maps"

	"github.com/poiesic/triage/core"
)

// Canned is a fixed reply for a topic, with the documentation page it cites.
type Canned struct {
	Text string `yaml:"text" json:"text"`
	URL  string `yaml:"url" json:"url"`
}

var defaultCanned = map[core.Topic]Canned{
	core.TopicHowTo: {
		Text: "Check the Atlan how-to guides for step-by-step instructions.",
		URL:  "https://docs.atlan.com/",
	},
	core.TopicProduct: {
		Text: "Explore product features and usage in the Atlan product documentation.",
		URL:  "https://docs.atlan.com/",
	},
	core.TopicAPISDK: {
		Text: "Refer to the Atlan developer hub for API and SDK usage.",
		URL:  "https://developer.atlan.com/",
	},
	core.TopicSSO: {
		Text: "SSO configuration steps are available in the Atlan docs.",
		URL:  "https://docs.atlan.com/",
	},
	core.TopicBestPractices: {
		Text: "Follow our best practices guide for recommended workflows.",
		URL:  "https://docs.atlan.com/",
	},
}

// DefaultCannedAnswers returns a copy of the built-in canned answers.
func DefaultCannedAnswers() map[core.Topic]Canned {
	return maps.Clone(defaultCanned)
}
