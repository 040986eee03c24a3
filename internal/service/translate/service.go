package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

// ErrEmptyTranslation is returned when the backend produced no text.
var ErrEmptyTranslation = errors.New("empty translation")

// Translator maps text between two languages. Both directions are explicit on every call.
type Translator interface {
	Translate(ctx context.Context, text string, source, target language.Language) (string, error)
}

const translatorSystemPrompt = `You are a translation engine. Translate the user's text from {source} to {target}.
Return only the translated text. Keep emoji, numbers, team names, scores and line breaks exactly as they are.`

// ChainTranslator uses the chat model as the translation backend.
type ChainTranslator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainTranslator compiles a translation chain on top of chatModel.
func NewChainTranslator(ctx context.Context, chatModel model.BaseChatModel) (*ChainTranslator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(translatorSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translation chain: %w", err)
	}
	return &ChainTranslator{chain: runnable}, nil
}

// Translate implements Translator.
func (t *ChainTranslator) Translate(ctx context.Context, text string, source, target language.Language) (string, error) {
	msg, err := t.chain.Invoke(ctx, map[string]any{
		"source": source.Name,
		"target": target.Name,
		"text":   text,
	})
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", source.Code, target.Code, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyTranslation
	}
	return strings.TrimSpace(msg.Content), nil
}

// Adapter applies a Translator with a conservative policy: a failed translation
// falls back to the untranslated text. A nil Adapter or nil Translator never translates.
type Adapter struct {
	translator Translator
}

// NewAdapter wraps translator. Pass nil to disable translation.
func NewAdapter(translator Translator) *Adapter {
	return &Adapter{translator: translator}
}

// Enabled reports whether a backend is configured.
func (a *Adapter) Enabled() bool {
	return a != nil && a.translator != nil
}

// Apply translates text from source to target, or returns it unchanged when
// no translation is needed or the backend fails.
func (a *Adapter) Apply(ctx context.Context, text string, source, target language.Language) string {
	if !a.Enabled() || strings.TrimSpace(text) == "" || source.Code == target.Code {
		return text
	}

	translated, err := a.translator.Translate(ctx, text, source, target)
	if err != nil {
		logger.WithCtx(ctx).Warn("translation failed, using original text",
			zap.String("source", source.Code),
			zap.String("target", target.Code),
			zap.Error(err))
		return text
	}
	return translated
}
