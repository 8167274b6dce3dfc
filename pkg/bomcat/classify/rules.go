package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// Rule is one learned classification entry: a case-insensitive
// substring or a regular expression, with the category it assigns.
type Rule struct {
	Contains string `yaml:"contains,omitempty"`
	Regex    string `yaml:"regex,omitempty"`
	Category string `yaml:"category"`
	Comment  string `yaml:"comment,omitempty"`

	re *regexp.Regexp
}

// RuleStore is the ordered list of learned rules. Order is the whole
// contract: the first rule matching a still-unclassified row wins and
// removes the row from the pool.
type RuleStore struct {
	Rules  []Rule `yaml:"rules"`
	logger *zap.Logger
}

// NewRuleStore returns an empty store.
func NewRuleStore(logger *zap.Logger) *RuleStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleStore{logger: logger}
}

// LoadRuleStore reads an ordered rule file. A missing file yields an
// empty store; a malformed file is an error.
func LoadRuleStore(path string, logger *zap.Logger) (*RuleStore, error) {
	s := NewRuleStore(logger)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: rule store %s: %v", internalerr.ErrStoreUnavailable, path, err)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: rule store %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	s.compile()
	return s, nil
}

// Save writes the store back in rule order.
func (s *RuleStore) Save(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Add appends a rule, keeping it last in evaluation order.
func (s *RuleStore) Add(r Rule) {
	s.Rules = append(s.Rules, r)
	s.compile()
}

// compile prepares regex rules. A rule with a bad pattern is left
// uncompiled and skipped during application; the rest still apply.
func (s *RuleStore) compile() {
	for i := range s.Rules {
		r := &s.Rules[i]
		if r.Regex == "" || r.re != nil {
			continue
		}
		re, err := regexp.Compile("(?i)" + r.Regex)
		if err != nil {
			s.logger.Warn("skipping malformed rule",
				zap.Int("index", i), zap.String("regex", r.Regex), zap.Error(err))
			continue
		}
		r.re = re
	}
}

// matches reports whether the rule applies to the lowered text blob.
func (r *Rule) matches(blob string) bool {
	if r.Contains != "" {
		return strings.Contains(blob, strings.ToLower(r.Contains))
	}
	if r.re != nil {
		return r.re.MatchString(blob)
	}
	return false
}

// Apply reassigns still-unclassified rows. Each row takes the category
// of the first rule in list order that matches it; once reassigned the
// row is out of the pool, so later rules never see it. Rules naming an
// unknown category are skipped.
func (s *RuleStore) Apply(rows []bom.ClassifiedRow) int {
	if len(s.Rules) == 0 {
		return 0
	}
	changed := 0
	for i := range rows {
		if rows[i].Category != bom.Unclassified {
			continue
		}
		blob := strings.ToLower(strings.Join([]string{
			rows[i].Description, rows[i].Value, rows[i].PartNumber, rows[i].Note,
		}, " "))
		for j := range s.Rules {
			r := &s.Rules[j]
			cat, ok := bom.ParseCategory(r.Category)
			if !ok {
				continue
			}
			if r.matches(blob) {
				rows[i].Category = cat
				changed++
				break
			}
		}
	}
	s.logger.Debug("rule store applied", zap.Int("reassigned", changed))
	return changed
}
