package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dotcommander/zodkit/internal/types"
)

// Registry errors.
var (
	ErrDuplicateRule = errors.New("duplicate rule id")
	ErrInvalidRule   = errors.New("invalid rule")
	ErrUnknownRule   = errors.New("unknown rule")
)

// ruleIDPattern is kebab-case with an optional @scope/ prefix for plugin rules.
var ruleIDPattern = regexp.MustCompile(`^(@[a-z0-9-]+/)?[a-z0-9]+(-[a-z0-9]+)*$`)

// Registry holds rules in registration order. Registration order is the order
// the engine evaluates rules and the tie-breaker for same-line violations.
type Registry struct {
	rules []Rule
	byID  map[string]int
}

// newMetaValidator builds the struct validator used for rule metadata.
func newMetaValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ruleid", func(fl validator.FieldLevel) bool {
		return ruleIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// NewRegistry validates and registers rules.
func NewRegistry(rs ...Rule) (*Registry, error) {
	v := newMetaValidator()
	reg := &Registry{
		rules: make([]Rule, 0, len(rs)),
		byID:  make(map[string]int, len(rs)),
	}

	for _, r := range rs {
		if err := v.Struct(r.Meta); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidRule, r.ID, err)
		}
		if r.Checker == nil {
			return nil, fmt.Errorf("%w %q: no checker", ErrInvalidRule, r.ID)
		}
		if _, dup := reg.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}
		reg.byID[r.ID] = len(reg.rules)
		reg.rules = append(reg.rules, r)
	}

	return reg, nil
}

// Rules returns a copy of the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Lookup returns the rule with the given id.
func (r *Registry) Lookup(id string) (Rule, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Select returns a registry restricted to enable (all rules when empty)
// minus disable. Unknown ids are an error so typos in config surface early.
func (r *Registry) Select(enable, disable []string) (*Registry, error) {
	for _, id := range append(append([]string(nil), enable...), disable...) {
		if _, ok := r.byID[strings.TrimSpace(id)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}

	enabled := toSet(enable)
	disabled := toSet(disable)

	var selected []Rule
	for _, rule := range r.rules {
		if len(enabled) > 0 && !enabled[rule.ID] {
			continue
		}
		if disabled[rule.ID] {
			continue
		}
		selected = append(selected, rule)
	}
	return NewRegistry(selected...)
}

// WithSeverity returns a registry with default severities overridden per rule id.
func (r *Registry) WithSeverity(overrides map[string]string) (*Registry, error) {
	out := r.Rules()
	for id, raw := range overrides {
		i, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
		sev, err := types.ParseSeverity(raw)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", id, err)
		}
		out[i].Severity = sev
	}
	return NewRegistry(out...)
}

// IDs returns the registered rule ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID
	}
	return ids
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[strings.TrimSpace(id)] = true
	}
	return set
}
