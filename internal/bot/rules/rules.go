// Package rules decides whether a mention gets a reply and what it says.
package rules

import (
	"strings"

	"github.com/edgard/tickbot/internal/config"
	"github.com/edgard/tickbot/internal/twitter"
)

// Labeler supplies the current time label appended to every reply.
type Labeler interface {
	CurrentLabel() string
}

// Rule replies with Greeting when the mention text contains Contains,
// ignoring case. The match is a plain substring test, so "hi" also
// matches "this".
type Rule struct {
	Contains string
	Greeting string
}

// Decision is the outcome for one mention. The zero value means no reply.
type Decision struct {
	Reply bool
	Text  string
}

// NoReply is the decision for mentions no rule matched.
var NoReply = Decision{}

// FromConfig converts configured rules, keeping their order.
func FromConfig(cfgRules []config.RuleConfig) []Rule {
	out := make([]Rule, 0, len(cfgRules))
	for _, r := range cfgRules {
		out = append(out, Rule{Contains: r.Contains, Greeting: r.Greeting})
	}
	return out
}

// Evaluator applies rules in order; the first match wins.
type Evaluator struct {
	rules   []Rule
	labeler Labeler
}

// NewEvaluator creates an Evaluator. Rules with an empty trigger are dropped
// since they would match every mention.
func NewEvaluator(rules []Rule, labeler Labeler) *Evaluator {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Contains) == "" {
			continue
		}
		kept = append(kept, Rule{Contains: strings.ToLower(r.Contains), Greeting: r.Greeting})
	}
	return &Evaluator{rules: kept, labeler: labeler}
}

// Evaluate returns the reply for m, or NoReply.
func (e *Evaluator) Evaluate(m twitter.Mention) Decision {
	text := strings.ToLower(m.Text)
	for _, r := range e.rules {
		if !strings.Contains(text, r.Contains) {
			continue
		}
		return Decision{
			Reply: true,
			Text:  r.Greeting + " @" + m.Handle + "! " + e.labeler.CurrentLabel(),
		}
	}
	return NoReply
}
