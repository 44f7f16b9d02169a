// Package selector picks the runtime model for a prompt using an ordered
// table of keyword rules.
package selector

import "strings"

// Model identifiers served by the generation runtime.
const (
	ModelMistral   = "mistral:7b-instruct"
	ModelCodeLlama = "codellama:7b-instruct"
	ModelQwenCoder = "qwen2.5-coder:7b"
)

// Fallback outcome when no rule matches.
const (
	DefaultModel  = ModelQwenCoder
	DefaultReason = "Default fallback"
)

// Selection is the chosen model and a human-readable reason for it.
type Selection struct {
	Model  string `json:"model"`
	Reason string `json:"reason"`
}

// Predicate reports whether a rule applies. Both arguments are lower-cased.
type Predicate func(prompt, language string) bool

// Rule maps a predicate to a model and reason.
type Rule struct {
	Model  string
	Reason string
	Match  Predicate
}

// Selector evaluates rules in order; the first match wins.
type Selector struct {
	rules []Rule
}

// New returns a selector over the given rules. The slice order is the
// priority order.
func New(rules []Rule) *Selector {
	return &Selector{rules: rules}
}

// Default returns a selector over DefaultRules.
func Default() *Selector {
	return New(DefaultRules())
}

// Rules returns a copy of the rule table.
func (s *Selector) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Serves reports whether model can come out of Select, either from a rule or
// as the fallback.
func (s *Selector) Serves(model string) bool {
	if model == DefaultModel {
		return true
	}
	for _, r := range s.rules {
		if r.Model == model {
			return true
		}
	}
	return false
}

// Select returns the model for the prompt and optional language hint. It
// never fails: a rule whose predicate panics counts as no match.
func (s *Selector) Select(prompt, language string) Selection {
	p := strings.ToLower(prompt)
	l := strings.ToLower(language)

	for _, r := range s.rules {
		if matches(r, p, l) {
			return Selection{Model: r.Model, Reason: r.Reason}
		}
	}
	return Selection{Model: DefaultModel, Reason: DefaultReason}
}

func matches(r Rule, p, l string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if r.Match == nil {
		return false
	}
	return r.Match(p, l)
}

// Select runs the default rule table.
func Select(prompt, language string) Selection {
	return defaultSelector.Select(prompt, language)
}

var defaultSelector = Default()

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
