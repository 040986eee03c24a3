package assistant

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/analysis/topic"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/chat"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	chatservice "github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/translate"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

// RefusalMessage is the reply to off-topic input.
const RefusalMessage = "🚫 Please ask about sports-related topics only."

var ErrEmptyMessage = errors.New("message text is required")

// Sink receives reply fragments in arrival order.
type Sink func(fragment string)

// ScoreSource renders live matches as chat text; failures come back as text too.
type ScoreSource interface {
	Summary(ctx context.Context) string
}

// Completer produces a model reply, reporting each fragment as it arrives.
type Completer interface {
	Complete(ctx context.Context, query string, lang language.Language, onFragment func(string)) (string, error)
}

// Turn is the outcome of one submission.
type Turn struct {
	User     chat.Message `json:"user"`
	Bot      chat.Message `json:"bot"`
	OnTopic  bool         `json:"onTopic"`
	Intent   topic.Intent `json:"intent,omitempty"`
	Language string       `json:"language"`
}

// Service runs the gate → route → produce → log pipeline for a session.
type Service struct {
	classifier topic.Classifier
	scores     ScoreSource
	completer  Completer
	translator *translate.Adapter
	languages  language.Store
}

// NewService wires the pipeline. translator may be nil.
func NewService(classifier topic.Classifier, scores ScoreSource, completer Completer, translator *translate.Adapter, languages language.Store) *Service {
	if classifier == nil {
		classifier = topic.NewKeywordClassifier()
	}
	return &Service{
		classifier: classifier,
		scores:     scores,
		completer:  completer,
		translator: translator,
		languages:  languages,
	}
}

// Submit handles one user submission and appends exactly two messages to the
// session: the user's text and the bot reply. Completion failures become an
// "Error: ..." reply rather than an error return.
func (s *Service) Submit(ctx context.Context, session *chatservice.Session, text string, sink Sink) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}
	if sink == nil {
		sink = func(string) {}
	}

	ctx = logger.ContextWithSession(ctx, session.ID())
	log := logger.WithCtx(ctx)

	lang := s.resolveLanguage(session.Preferences().Language)
	english := language.Pivot()

	query := s.translator.Apply(ctx, text, lang, english)

	turn := Turn{Language: lang.Code}
	var reply string

	switch {
	case !s.classifier.OnTopic(query):
		reply = s.translator.Apply(ctx, RefusalMessage, english, lang)
		sink(reply)

	case topic.Route(query) == topic.IntentLiveScore:
		turn.OnTopic = true
		turn.Intent = topic.IntentLiveScore
		reply = s.translator.Apply(ctx, s.scores.Summary(ctx), english, lang)
		sink(reply)

	default:
		turn.OnTopic = true
		turn.Intent = topic.IntentGeneral
		full, err := s.completer.Complete(ctx, query, lang, sink)
		if err != nil {
			log.Warn("completion failed", zap.Error(err))
			reply = "Error: " + err.Error()
			break
		}
		reply = full
	}

	turn.User, turn.Bot = session.AppendExchange(text, reply)

	log.Info("turn completed",
		zap.Bool("on_topic", turn.OnTopic),
		zap.String("intent", string(turn.Intent)),
		zap.String("language", lang.Code),
		zap.Int("reply_length", len(reply)))
	return turn, nil
}

func (s *Service) resolveLanguage(code string) language.Language {
	lang, err := s.languages.Find(code)
	if err != nil {
		return s.languages.Default()
	}
	return lang
}
