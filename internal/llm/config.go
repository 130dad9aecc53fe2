// Package llm wraps the generative model behind a small Client interface.
package llm

import (
	"fmt"
	"maps"
)

// ModelTier picks a model by cost and capability
type ModelTier string

const (
	// TierLite is a small, cheap model; one short message per user needs no more
	TierLite ModelTier = "lite"
	// TierStandard is the larger model, for better copy at a higher price
	TierStandard ModelTier = "standard"
)

// ParseTier validates a tier name; empty means TierLite
func ParseTier(s string) (ModelTier, error) {
	switch ModelTier(s) {
	case "":
		return TierLite, nil
	case TierLite, TierStandard:
		return ModelTier(s), nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want lite or standard)", s)
	}
}

// Provider names the model vendor
type Provider string

// ProviderGemini is the Google Gemini API, the only provider wired today
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps marketing copy varied without drifting off-prompt
const DefaultTemperature float32 = 0.7

// Config maps tiers to model names for one provider.
// It is built once per run and handed to NewClient.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini models used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model for tier. A tier with no model falls back to
// the other tier so a config that names only one model still works.
func (c *Config) GetModel(tier ModelTier) string {
	if model := c.Models[tier]; model != "" {
		return model
	}
	other := TierStandard
	if tier == TierStandard {
		other = TierLite
	}
	return c.Models[other]
}

// WithModel returns a copy of the config with model set for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = maps.Clone(c.Models)
	if next.Models == nil {
		next.Models = make(map[ModelTier]string)
	}
	next.Models[tier] = model
	return &next
}
