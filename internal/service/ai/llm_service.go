package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

// ErrStreamingDisabled is returned by Stream when the deployment turned streaming off.
var ErrStreamingDisabled = errors.New("streaming disabled in configuration")

// Options tunes the completion service.
type Options struct {
	Streaming bool
}

// Service encapsulates the chat-completion call
type Service struct {
	opts  Options
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt → model chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, opts Options) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		opts:  opts,
		chain: runnable,
	}, nil
}

// StreamingEnabled 指示是否开启流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.opts.Streaming
}

// Generate returns the full reply in one call.
func (s *Service) Generate(ctx context.Context, query string, lang language.Language) (*schema.Message, error) {
	response, err := s.chain.Invoke(ctx, buildChainInput(query, lang))
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}

	logger.WithCtx(ctx).Debug("generated completion",
		zap.String("language", lang.Code),
		zap.Int("length", len(response.Content)))
	return response, nil
}

// Stream opens a token stream. Callers must Close the reader; the stream ends
// with io.EOF when the upstream closes.
func (s *Service) Stream(ctx context.Context, query string, lang language.Language) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, ErrStreamingDisabled
	}

	stream, err := s.chain.Stream(ctx, buildChainInput(query, lang))
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain output: %w", err)
	}
	return stream, nil
}

// Complete produces the reply and hands each fragment to onFragment as it
// arrives. With streaming disabled the whole reply is delivered as one fragment.
// The returned string is the concatenation of every fragment.
func (s *Service) Complete(ctx context.Context, query string, lang language.Language, onFragment func(string)) (string, error) {
	if !s.StreamingEnabled() {
		response, err := s.Generate(ctx, query, lang)
		if err != nil {
			return "", err
		}
		if onFragment != nil && response.Content != "" {
			onFragment(response.Content)
		}
		return response.Content, nil
	}

	stream, err := s.Stream(ctx, query, lang)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return reply.String(), recvErr
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		reply.WriteString(chunk.Content)
		if onFragment != nil {
			onFragment(chunk.Content)
		}
	}

	return reply.String(), nil
}

func buildChainInput(query string, lang language.Language) map[string]any {
	var system []*schema.Message
	if instruction := BuildSystemPrompt(lang); instruction != "" {
		system = append(system, schema.SystemMessage(instruction))
	}

	return map[string]any{
		"system": system,
		"query":  query,
	}
}
