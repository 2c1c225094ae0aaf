package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/serendibtrip/serendibtrip-api/types"
	"gopkg.in/yaml.v3"
)

//go:embed feature_limits.yaml
var defaultFeatureLimits []byte

// AudienceRules holds one feature's rule per audience.
type AudienceRules struct {
	Guest         types.FeatureRule `yaml:"guest"`
	Authenticated types.FeatureRule `yaml:"authenticated"`
}

// FeatureLimits is the gate's decision table.
type FeatureLimits struct {
	Features map[types.FeatureName]AudienceRules `yaml:"features"`
}

// Rule returns the rule for a feature and audience. Unknown features are
// reported as not found.
func (l *FeatureLimits) Rule(name types.FeatureName, audience types.Audience) (types.FeatureRule, bool) {
	rules, ok := l.Features[name]
	if !ok {
		return types.FeatureRule{}, false
	}
	if audience == types.AudienceGuest {
		return rules.Guest, true
	}
	return rules.Authenticated, true
}

// Names lists configured features in a stable order.
func (l *FeatureLimits) Names() []types.FeatureName {
	known := []types.FeatureName{
		types.FeatureAIRecommendations,
		types.FeatureAIChat,
		types.FeatureSaveTrip,
		types.FeatureShareItinerary,
		types.FeatureExportPDF,
	}
	names := make([]types.FeatureName, 0, len(l.Features))
	for _, n := range known {
		if _, ok := l.Features[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// LoadFeatureLimits reads the decision table from path, or the embedded
// default when path is empty.
func LoadFeatureLimits(path string) (*FeatureLimits, error) {
	data := defaultFeatureLimits
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read feature limits file: %w", err)
		}
		data = b
	}
	return ParseFeatureLimits(data)
}

// ParseFeatureLimits decodes and validates a YAML decision table.
func ParseFeatureLimits(data []byte) (*FeatureLimits, error) {
	var limits FeatureLimits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return nil, fmt.Errorf("failed to parse feature limits: %w", err)
	}
	if len(limits.Features) == 0 {
		return nil, fmt.Errorf("feature limits define no features")
	}

	for name, rules := range limits.Features {
		for audience, rule := range map[types.Audience]*types.FeatureRule{
			types.AudienceGuest:         &rules.Guest,
			types.AudienceAuthenticated: &rules.Authenticated,
		} {
			if rule.Limit < 0 {
				return nil, fmt.Errorf("feature %s (%s): limit must not be negative", name, audience)
			}
			if rule.Scope == "" {
				if audience == types.AudienceGuest {
					rule.Scope = types.QuotaScopeSession
				} else {
					rule.Scope = types.QuotaScopeDaily
				}
			}
			if rule.Scope != types.QuotaScopeDaily && rule.Scope != types.QuotaScopeSession {
				return nil, fmt.Errorf("feature %s (%s): unknown scope %q", name, audience, rule.Scope)
			}
		}
		limits.Features[name] = rules
	}

	return &limits, nil
}
