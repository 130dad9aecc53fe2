// Package marketing produces personalized investment messages with an LLM.
package marketing

import (
	"context"
	"strings"

	"github.com/jonathan/user-news-etl/internal/llm"
	"github.com/jonathan/user-news-etl/internal/prompts"
	"github.com/jonathan/user-news-etl/internal/types"
)

// DefaultMaxChars is the length hint given to the model. It is advisory only.
const DefaultMaxChars = 100

// Language selects the prompt template
type Language string

// Supported prompt languages
const (
	LanguageEnglish    Language = "en"
	LanguagePortuguese Language = "pt"
)

// Options configures a Generator
type Options struct {
	Tier     llm.ModelTier
	MaxChars int
	Language Language
}

// Generator builds one marketing message per user
type Generator struct {
	client   llm.Client
	tier     llm.ModelTier
	maxChars int
	language Language
}

// NewGenerator wraps an LLM client. The caller owns the client and closes it.
func NewGenerator(client llm.Client, opts Options) *Generator {
	if opts.Tier == "" {
		opts.Tier = llm.TierLite
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.Language == "" {
		opts.Language = LanguageEnglish
	}
	return &Generator{
		client:   client,
		tier:     opts.Tier,
		maxChars: opts.MaxChars,
		language: opts.Language,
	}
}

// Generate asks the model for one message about investing addressed to the user.
// The call is synchronous and is not retried.
func (g *Generator) Generate(ctx context.Context, user *types.User) (string, error) {
	if user == nil {
		return "", &GenerationError{Message: "user is nil"}
	}

	system, prompt, err := g.buildPrompts(user)
	if err != nil {
		return "", &GenerationError{UserID: user.ID, Message: "failed to build prompt", Cause: err}
	}

	text, err := g.client.GenerateContent(ctx, system, prompt, g.tier)
	if err != nil {
		return "", &GenerationError{
			UserID:  user.ID,
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}

	text = StripQuotes(text)
	if text == "" {
		return "", &GenerationError{UserID: user.ID, Message: "LLM returned an empty message"}
	}
	return text, nil
}

// buildPrompts returns the system instruction and the per-user prompt
func (g *Generator) buildPrompts(user *types.User) (string, string, error) {
	set, err := prompts.LoadMarketing()
	if err != nil {
		return "", "", err
	}

	prompt, err := set.News(string(g.language), prompts.NewsData{
		Name:     user.Name,
		MaxChars: g.maxChars,
	})
	if err != nil {
		return "", "", err
	}
	return set.System, prompt, nil
}

// StripQuotes trims whitespace and the double quotes models like to wrap
// short answers in.
func StripQuotes(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"`)
	return strings.TrimSpace(text)
}
