// Package prompts holds the LLM prompts used to write marketing messages.
// They live in marketing.json, embedded at compile time and parsed once.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed marketing.json
var marketingJSON []byte

// NewsData fills the per-user news template
type NewsData struct {
	Name     string
	MaxChars int
}

// Marketing is the parsed prompt set: one system instruction and one news
// template per language code.
type Marketing struct {
	System string
	news   map[string]*template.Template
}

var (
	marketingOnce sync.Once
	marketing     *Marketing
	marketingErr  error
)

// LoadMarketing returns the embedded prompt set, parsing it on first use
func LoadMarketing() (*Marketing, error) {
	marketingOnce.Do(func() {
		marketing, marketingErr = ParseMarketing(marketingJSON)
	})
	return marketing, marketingErr
}

// ParseMarketing builds a prompt set from a marketing.json document
func ParseMarketing(data []byte) (*Marketing, error) {
	var raw struct {
		System string            `json:"system"`
		News   map[string]string `json:"news"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse marketing prompts: %w", err)
	}
	if strings.TrimSpace(raw.System) == "" {
		return nil, fmt.Errorf("marketing prompts: system instruction is empty")
	}
	if len(raw.News) == 0 {
		return nil, fmt.Errorf("marketing prompts: no news templates")
	}

	m := &Marketing{System: raw.System, news: make(map[string]*template.Template, len(raw.News))}
	for lang, text := range raw.News {
		tmpl, err := template.New(lang).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("marketing prompts: news template %q: %w", lang, err)
		}
		m.news[lang] = tmpl
	}
	return m, nil
}

// News renders the news prompt for a language. The user's name is inserted
// as data, never parsed as template text.
func (m *Marketing) News(lang string, data NewsData) (string, error) {
	tmpl, ok := m.news[lang]
	if !ok {
		return "", fmt.Errorf("no news prompt for language %q (have %s)", lang, strings.Join(m.Languages(), ", "))
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render news prompt: %w", err)
	}
	return sb.String(), nil
}

// Languages lists the language codes with a news template, sorted
func (m *Marketing) Languages() []string {
	langs := make([]string, 0, len(m.news))
	for lang := range m.news {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
