package cli

import (
	"fmt"
)

// Provider name constants.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Provider represents a validated LLM provider for title generation.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed constants.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// Pre-parsed provider constants for use in code.
var (
	OpenAIProvider   = Provider{name: ProviderOpenAI}
	DeepSeekProvider = Provider{name: ProviderDeepSeek}
)

// validProviders contains the set of valid provider names.
var validProviders = map[string]bool{
	ProviderOpenAI:   true,
	ProviderDeepSeek: true,
}

// ParseProvider validates and parses a provider name string.
// Returns ErrUnsupportedProvider if the name is not recognized.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrUnsupportedProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'openai' or 'deepseek'): %w", s, ErrUnsupportedProvider)
	}
	return Provider{name: s}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name string.
// Returns empty string for zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if this is the zero value (no provider set).
func (p Provider) IsZero() bool {
	return p.name == ""
}

// IsDeepSeek returns true if this provider is DeepSeek.
func (p Provider) IsDeepSeek() bool {
	return p.name == ProviderDeepSeek
}

// EnvKey returns the environment variable holding the provider's API key.
func (p Provider) EnvKey() string {
	if p.IsDeepSeek() {
		return "DEEPSEEK_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// DefaultModel returns the provider's default chat-completion model.
func (p Provider) DefaultModel() string {
	if p.IsDeepSeek() {
		return "deepseek-chat"
	}
	return "gpt-4o-mini"
}

// OrDefault returns the provider, or OpenAIProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return OpenAIProvider
	}
	return p
}

// resolveProviderModel applies the flag > config > default precedence
// for the LLM provider and model names.
func resolveProviderModel(providerFlag, modelFlag, cfgProvider, cfgModel string) (Provider, string, error) {
	name := providerFlag
	if name == "" {
		name = cfgProvider
	}

	var p Provider
	if name == "" {
		p = OpenAIProvider
	} else {
		var err error
		p, err = ParseProvider(name)
		if err != nil {
			return Provider{}, "", err
		}
	}

	model := modelFlag
	if model == "" {
		model = cfgModel
	}
	if model == "" {
		model = p.DefaultModel()
	}
	return p, model, nil
}
