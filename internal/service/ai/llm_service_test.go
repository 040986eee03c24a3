package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
)

// scriptedModel replies with fixed fragments and records the last prompt.
type scriptedModel struct {
	fragments []string
	err       error
	lastInput []*schema.Message
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(strings.Join(m.fragments, ""), nil), nil
}

func (m *scriptedModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]*schema.Message, 0, len(m.fragments))
	for _, f := range m.fragments {
		chunks = append(chunks, schema.AssistantMessage(f, nil))
	}
	return schema.StreamReaderFromArray(chunks), nil
}

func findLanguage(t *testing.T, code string) language.Language {
	t.Helper()
	lang, err := language.NewMemoryStore(language.Seed()).Find(code)
	require.NoError(t, err)
	return lang
}

func TestCompleteConcatenationMatchesGenerate(t *testing.T) {
	m := &scriptedModel{fragments: []string{"Messi ", "has won ", "eight ", "Ballon d'Or awards."}}
	ctx := context.Background()
	en := findLanguage(t, "en")

	streaming, err := NewService(ctx, m, Options{Streaming: true})
	require.NoError(t, err)

	var got []string
	full, err := streaming.Complete(ctx, "How many Ballon d'Or awards has Messi won?", en, func(fragment string) {
		got = append(got, fragment)
	})
	require.NoError(t, err)
	assert.Equal(t, m.fragments, got)

	generated, err := streaming.Generate(ctx, "How many Ballon d'Or awards has Messi won?", en)
	require.NoError(t, err)
	assert.Equal(t, generated.Content, full)
	assert.Equal(t, strings.Join(got, ""), full)
}

func TestCompleteWithoutStreamingDeliversSingleFragment(t *testing.T) {
	m := &scriptedModel{fragments: []string{"a", "b"}}
	ctx := context.Background()

	svc, err := NewService(ctx, m, Options{Streaming: false})
	require.NoError(t, err)

	var got []string
	full, err := svc.Complete(ctx, "q", findLanguage(t, "en"), func(f string) { got = append(got, f) })
	require.NoError(t, err)
	assert.Equal(t, "ab", full)
	assert.Equal(t, []string{"ab"}, got)

	_, err = svc.Stream(ctx, "q", findLanguage(t, "en"))
	assert.ErrorIs(t, err, ErrStreamingDisabled)
}

func TestEnglishSendsOnlyTheUserMessage(t *testing.T) {
	m := &scriptedModel{fragments: []string{"ok"}}
	ctx := context.Background()
	svc, err := NewService(ctx, m, Options{Streaming: true})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, "who is the best {coach}?", findLanguage(t, "en"))
	require.NoError(t, err)

	require.Len(t, m.lastInput, 1)
	assert.Equal(t, schema.User, m.lastInput[0].Role)
	assert.Equal(t, "who is the best {coach}?", m.lastInput[0].Content)
}

func TestNonEnglishPrefixesLanguageInstruction(t *testing.T) {
	m := &scriptedModel{fragments: []string{"ok"}}
	ctx := context.Background()
	svc, err := NewService(ctx, m, Options{Streaming: true})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, "football rules", findLanguage(t, "es"), nil)
	require.NoError(t, err)

	require.Len(t, m.lastInput, 2)
	assert.Equal(t, schema.System, m.lastInput[0].Role)
	assert.Contains(t, m.lastInput[0].Content, "Spanish")
	assert.Equal(t, "football rules", m.lastInput[1].Content)
}

func TestCompletePropagatesModelError(t *testing.T) {
	m := &scriptedModel{err: errors.New("rate limited")}
	ctx := context.Background()
	svc, err := NewService(ctx, m, Options{Streaming: true})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, "q", findLanguage(t, "en"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewServiceRequiresModel(t *testing.T) {
	_, err := NewService(context.Background(), nil, Options{})
	assert.Error(t, err)
}
