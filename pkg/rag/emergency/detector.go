package emergency

import "strings"

// Detector short-circuits the whole pipeline for messages that describe a
// medical emergency. The keyword list is configuration data so it can be
// audited without a code change. Matching is case-insensitive substring
// containment and runs before any external call.
type Detector struct {
	keywords []string
	message  string
}

func NewDetector(keywords []string, escalationMessage string) *Detector {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(strings.ToLower(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Detector{
		keywords: lowered,
		message:  escalationMessage,
	}
}

func (d *Detector) Match(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Message returns the fixed escalation reply.
func (d *Detector) Message() string {
	return d.message
}
