package penalty

import (
	_ "embed"
	"fmt"
	"sort"

	"bidmart/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// PenaltyRule is the static policy for one violation type.
type PenaltyRule struct {
	Type             models.PenaltyType  `yaml:"type" json:"type"`
	Severity         models.Severity     `yaml:"severity" json:"severity"`
	BaseAmount       int64               `yaml:"base_amount" json:"base_amount"`
	DurationDays     int                 `yaml:"duration_days" json:"duration_days"`
	TriggersCooldown bool                `yaml:"triggers_cooldown" json:"triggers_cooldown"`
	CooldownType     models.CooldownType `yaml:"cooldown_type,omitempty" json:"cooldown_type,omitempty"`
	CooldownDays     int                 `yaml:"cooldown_days,omitempty" json:"cooldown_days,omitempty"`
	Description      string              `yaml:"description" json:"description"`
}

// Catalog is the immutable rule set keyed by penalty type.
type Catalog struct {
	rules map[models.PenaltyType]PenaltyRule
}

type catalogFile struct {
	Rules []PenaltyRule `yaml:"rules"`
}

// DefaultCatalog loads the embedded rule set.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultRules)
}

// MustDefaultCatalog is DefaultCatalog for program start-up.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes and validates a YAML rule set. Every penalty type
// must appear exactly once.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse penalty rules: %w", err)
	}

	known := make(map[models.PenaltyType]bool, len(models.AllPenaltyTypes))
	for _, t := range models.AllPenaltyTypes {
		known[t] = true
	}

	rules := make(map[models.PenaltyType]PenaltyRule, len(file.Rules))
	for _, r := range file.Rules {
		if !known[r.Type] {
			return nil, fmt.Errorf("%w: unknown penalty type %q", ErrInvalidCatalog, r.Type)
		}
		if _, dup := rules[r.Type]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for %q", ErrInvalidCatalog, r.Type)
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
		rules[r.Type] = r
	}

	for _, t := range models.AllPenaltyTypes {
		if _, ok := rules[t]; !ok {
			return nil, fmt.Errorf("%w: missing rule for %q", ErrInvalidCatalog, t)
		}
	}

	return &Catalog{rules: rules}, nil
}

func validateRule(r PenaltyRule) error {
	switch {
	case !r.Severity.Valid():
		return fmt.Errorf("%w: %q has invalid severity %q", ErrInvalidCatalog, r.Type, r.Severity)
	case r.BaseAmount <= 0:
		return fmt.Errorf("%w: %q base amount must be positive", ErrInvalidCatalog, r.Type)
	case r.DurationDays <= 0:
		return fmt.Errorf("%w: %q duration must be positive", ErrInvalidCatalog, r.Type)
	case r.TriggersCooldown && !r.CooldownType.Valid():
		return fmt.Errorf("%w: %q triggers a cooldown without a valid cooldown type", ErrInvalidCatalog, r.Type)
	case r.TriggersCooldown && r.CooldownDays <= 0:
		return fmt.Errorf("%w: %q cooldown days must be positive", ErrInvalidCatalog, r.Type)
	case !r.TriggersCooldown && (r.CooldownType != "" || r.CooldownDays != 0):
		return fmt.Errorf("%w: %q sets a cooldown but does not trigger one", ErrInvalidCatalog, r.Type)
	}
	return nil
}

func (c *Catalog) Rule(t models.PenaltyType) (PenaltyRule, bool) {
	r, ok := c.rules[t]
	return r, ok
}

// Rules returns a copy of every rule sorted by type.
func (c *Catalog) Rules() []PenaltyRule {
	out := make([]PenaltyRule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
