package marketing

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/user-news-etl/internal/llm"
	"github.com/jonathan/user-news-etl/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClient records calls and returns a canned response
type fakeClient struct {
	response string
	err      error
	calls    []fakeCall
}

type fakeCall struct {
	system string
	prompt string
	tier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(_ context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	f.calls = append(f.calls, fakeCall{system: system, prompt: prompt, tier: tier})
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func TestGenerate_BuildsPromptAndStripsQuotes(t *testing.T) {
	client := &fakeClient{response: "\"Invest early!\"\n"}
	gen := NewGenerator(client, Options{})

	text, err := gen.Generate(context.Background(), &types.User{ID: "1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Invest early!", text)

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Equal(t, "You are a banking marketing specialist.", call.system)
	assert.Contains(t, call.prompt, "Ana")
	assert.Contains(t, call.prompt, "importance of investing")
	assert.Contains(t, call.prompt, "100 characters")
	assert.Equal(t, llm.TierLite, call.tier)
}

func TestGenerate_PortugueseAndCustomLimit(t *testing.T) {
	client := &fakeClient{response: "Invista já!"}
	gen := NewGenerator(client, Options{Language: LanguagePortuguese, MaxChars: 80, Tier: llm.TierStandard})

	text, err := gen.Generate(context.Background(), &types.User{ID: "2", Name: "João"})
	require.NoError(t, err)
	assert.Equal(t, "Invista já!", text)

	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0].prompt, "Crie uma mensagem para João")
	assert.Contains(t, client.calls[0].prompt, "80 caracteres")
	assert.Equal(t, llm.TierStandard, client.calls[0].tier)
}

func TestGenerate_NameWithTemplateSyntax(t *testing.T) {
	client := &fakeClient{response: "ok"}
	gen := NewGenerator(client, Options{MaxChars: 60})

	_, err := gen.Generate(context.Background(), &types.User{ID: "9", Name: "{{.MaxChars}}"})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0].prompt, "message for {{.MaxChars}} about")
	assert.Contains(t, client.calls[0].prompt, "60 characters")
}

func TestGenerate_UnknownLanguage(t *testing.T) {
	client := &fakeClient{response: "ok"}
	gen := NewGenerator(client, Options{Language: Language("fr")})

	_, err := gen.Generate(context.Background(), &types.User{ID: "1", Name: "Ana"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "failed to build prompt")
	assert.Empty(t, client.calls)
}

func TestGenerate_ClientError(t *testing.T) {
	cause := errors.New("quota exceeded")
	gen := NewGenerator(&fakeClient{err: cause}, Options{})

	_, err := gen.Generate(context.Background(), &types.User{ID: "7", Name: "Ana"})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, types.Identifier("7"), genErr.UserID)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "generation failed for user 7")
}

func TestGenerate_EmptyResponse(t *testing.T) {
	gen := NewGenerator(&fakeClient{response: ` "" `}, Options{})

	_, err := gen.Generate(context.Background(), &types.User{ID: "1", Name: "Ana"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "empty message")
}

func TestGenerate_NilUser(t *testing.T) {
	gen := NewGenerator(&fakeClient{response: "x"}, Options{})

	_, err := gen.Generate(context.Background(), nil)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: `"Invest early!"`, expected: "Invest early!"},
		{input: `  Invest early!  `, expected: "Invest early!"},
		{input: `"Invest early!`, expected: "Invest early!"},
		{input: `Say "yes" to investing`, expected: `Say "yes" to investing`},
		{input: ``, expected: ``},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripQuotes(tt.input))
		})
	}
}
