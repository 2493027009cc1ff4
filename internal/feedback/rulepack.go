package feedback

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RulePack overrides the wording and hints of the built-in rules.
// Conditions and their order are fixed in code.
type RulePack struct {
	Title string                    `yaml:"title"`
	Rules map[Category]RuleOverride `yaml:"rules"`
}

// RuleOverride replaces the non-empty fields of one category's rule.
type RuleOverride struct {
	Message string           `yaml:"message"`
	Advice  string           `yaml:"advice"`
	Hints   []SuggestionHint `yaml:"hints"`
}

// LoadRulePack reads a YAML rule pack. An empty path or a missing file yields a nil pack.
func LoadRulePack(path string) (*RulePack, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	var pack RulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse rule pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return &pack, nil
}

// Validate rejects unknown categories and malformed hints.
func (p *RulePack) Validate() error {
	if p == nil {
		return nil
	}
	for category, override := range p.Rules {
		if !category.Valid() {
			return fmt.Errorf("rule pack: unknown category %q", category)
		}
		for i, hint := range override.Hints {
			if strings.TrimSpace(hint.Tag) == "" {
				return fmt.Errorf("rule pack: %s hint %d has no tag", category, i)
			}
			if hint.Score < 0 || hint.Score > 1 {
				return fmt.Errorf("rule pack: %s hint %d score %v outside [0, 1]", category, i, hint.Score)
			}
		}
	}
	return nil
}

func (p *RulePack) apply(r Rule) Rule {
	override, ok := p.Rules[r.Category]
	if !ok {
		return r
	}
	if msg := strings.TrimSpace(override.Message); msg != "" {
		r.Message = msg
	}
	if advice := strings.TrimSpace(override.Advice); advice != "" {
		r.Advice = advice
	}
	if len(override.Hints) > 0 {
		r.Hints = append([]SuggestionHint(nil), override.Hints...)
	}
	return r
}
