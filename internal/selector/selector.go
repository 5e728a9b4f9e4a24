// internal/selector/selector.go
// Package selector picks one model from a backend's listing: an exact
// preferred name first, then prompt-keyword rules, then the smallest model.
package selector

import (
	"fmt"
	"strings"

	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providers"
)

// largeContextWords is the whitespace token count above which a prompt is
// routed to long-context families.
const largeContextWords = 500

// Rule routes prompts that match to the first listed model of one of its
// families. Families are tried in order.
type Rule struct {
	Name     string
	Matches  func(prompt string) bool
	Families []string
}

// Rules is evaluated in order; the first rule that matches and has a family
// present in the listing decides.
var Rules = []Rule{
	{
		Name:     "code",
		Matches:  containsAny("code", "programming", "debug", "function", "algorithm"),
		Families: []string{"codellama", "deepseek-coder", "wizard-coder"},
	},
	{
		Name:     "creative",
		Matches:  containsAny("story", "creative", "write", "poem", "novel"),
		Families: []string{"mistral", "llama2"},
	},
	{
		Name:     "math",
		Matches:  containsAny("math", "calculate", "solve", "equation", "analysis"),
		Families: []string{"qwen", "deepseek", "mixtral"},
	},
	{
		Name: "large-context",
		Matches: func(prompt string) bool {
			return len(strings.Fields(prompt)) > largeContextWords
		},
		Families: []string{"claude", "mixtral", "qwen"},
	},
}

// containsAny matches when the lower-cased prompt contains any keyword as a
// substring.
func containsAny(keywords ...string) func(string) bool {
	return func(prompt string) bool {
		lower := strings.ToLower(prompt)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
}

// Decision records which path chose the model.
type Decision string

const (
	DecisionPreferred Decision = "preferred"
	DecisionSmallest  Decision = "smallest"
	DecisionFirst     Decision = "first"
)

// RuleDecision is the Decision for a model chosen by the named rule.
func RuleDecision(name string) Decision { return Decision("rule:" + name) }

// Select returns one model from list. A preferred name that is not listed
// falls through to the rules (when prompt is non-empty) and then to the
// smallest model. It fails only on an empty list.
func Select(list []models.Descriptor, preferred, prompt string) (models.Descriptor, Decision, error) {
	if len(list) == 0 {
		return models.Descriptor{}, "", fmt.Errorf("%w: nothing to select from", providers.ErrNoModelsAvailable)
	}

	if preferred != "" {
		for _, m := range list {
			if m.Name == preferred {
				return m, DecisionPreferred, nil
			}
		}
		logging.LogWarn("Model %s not found. Using rule-based selection instead.", preferred)
	}

	if prompt != "" {
		if m, rule, ok := SelectByRules(list, prompt); ok {
			return m, RuleDecision(rule), nil
		}
	}

	m, decision := Smallest(list)
	return m, decision, nil
}

// SelectByRules applies Rules to prompt and returns the chosen model and the
// rule name. ok is false when no rule both matched and found a family.
func SelectByRules(list []models.Descriptor, prompt string) (m models.Descriptor, rule string, ok bool) {
	for _, r := range Rules {
		if !r.Matches(prompt) {
			continue
		}
		if m, found := firstOfFamilies(list, r.Families); found {
			return m, r.Name, true
		}
	}
	return models.Descriptor{}, "", false
}

func firstOfFamilies(list []models.Descriptor, families []string) (models.Descriptor, bool) {
	for _, family := range families {
		for _, m := range list {
			if strings.Contains(strings.ToLower(m.Name), family) {
				return m, true
			}
		}
	}
	return models.Descriptor{}, false
}

// Smallest returns the model with the lowest parseable parameter count, the
// earliest on ties. When no size parses it returns the first model. list must
// not be empty.
func Smallest(list []models.Descriptor) (models.Descriptor, Decision) {
	best := -1
	var bestCount float64
	for i, m := range list {
		count, ok := m.ParameterCount()
		if !ok {
			continue
		}
		if best < 0 || count < bestCount {
			best, bestCount = i, count
		}
	}
	if best < 0 {
		return list[0], DecisionFirst
	}
	return list[best], DecisionSmallest
}
