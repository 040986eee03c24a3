package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text string, _, _ language.Language) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

type echoModel struct {
	reply     string
	lastInput []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *echoModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.lastInput = input
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(m.reply, nil)}), nil
}

func languages(t *testing.T) (language.Language, language.Language) {
	t.Helper()
	store := language.NewMemoryStore(language.Seed())
	en, err := store.Find("en")
	require.NoError(t, err)
	hi, err := store.Find("hi")
	require.NoError(t, err)
	return en, hi
}

func TestAdapterTranslates(t *testing.T) {
	en, hi := languages(t)
	stub := &stubTranslator{out: "नमस्ते"}

	got := NewAdapter(stub).Apply(context.Background(), "hello", en, hi)
	assert.Equal(t, "नमस्ते", got)
	assert.Equal(t, 1, stub.calls)
}

func TestAdapterSkipsSameLanguageAndBlankText(t *testing.T) {
	en, hi := languages(t)
	stub := &stubTranslator{out: "x"}
	adapter := NewAdapter(stub)

	assert.Equal(t, "hello", adapter.Apply(context.Background(), "hello", en, en))
	assert.Equal(t, "  ", adapter.Apply(context.Background(), "  ", en, hi))
	assert.Equal(t, 0, stub.calls)
}

func TestAdapterFallsBackToOriginalOnError(t *testing.T) {
	en, hi := languages(t)
	stub := &stubTranslator{err: errors.New("backend down")}

	assert.Equal(t, "hello", NewAdapter(stub).Apply(context.Background(), "hello", en, hi))
}

func TestNilAdapterIsDisabled(t *testing.T) {
	en, hi := languages(t)
	var adapter *Adapter

	assert.False(t, adapter.Enabled())
	assert.False(t, NewAdapter(nil).Enabled())
	assert.Equal(t, "hello", adapter.Apply(context.Background(), "hello", en, hi))
}

func TestChainTranslatorPromptsWithBothLanguages(t *testing.T) {
	en, hi := languages(t)
	m := &echoModel{reply: "  खेल  "}

	translator, err := NewChainTranslator(context.Background(), m)
	require.NoError(t, err)

	got, err := translator.Translate(context.Background(), "sport", en, hi)
	require.NoError(t, err)
	assert.Equal(t, "खेल", got)

	require.Len(t, m.lastInput, 2)
	assert.Contains(t, m.lastInput[0].Content, "from English to Hindi")
	assert.Equal(t, "sport", m.lastInput[1].Content)
}

func TestChainTranslatorRejectsEmptyOutput(t *testing.T) {
	en, hi := languages(t)
	translator, err := NewChainTranslator(context.Background(), &echoModel{reply: " "})
	require.NoError(t, err)

	_, err = translator.Translate(context.Background(), "sport", en, hi)
	assert.ErrorIs(t, err, ErrEmptyTranslation)
}
