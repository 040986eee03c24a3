package chat

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/chat"
)

// Session is the handle for one conversation. It is passed explicitly to every
// handler that reads or writes the log; all methods are safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.RWMutex
	prefs    chat.Preferences
	messages []chat.Message
	votes    map[string]chat.Vote
}

func newSession(prefs chat.Preferences) *Session {
	return &Session{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		prefs:     prefs,
		messages:  make([]chat.Message, 0, 16),
		votes:     make(map[string]chat.Vote),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Append adds a message to the end of the log. Bot messages receive a
// feedback id equal to their 1-based position in the log.
func (s *Session) Append(role chat.Role, text string) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	s.messages = append(s.messages, message)
	if role == chat.RoleBot {
		message.FeedbackID = strconv.Itoa(len(s.messages))
		s.messages[len(s.messages)-1] = message
	}
	return message
}

// AppendExchange logs a user message and the bot reply as one adjacent pair,
// so concurrent submissions on the same session never interleave.
func (s *Session) AppendExchange(userText, botText string) (chat.Message, chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	user := chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleUser,
		Text:      userText,
		CreatedAt: now,
	}
	s.messages = append(s.messages, user)

	bot := chat.Message{
		ID:         uuid.NewString(),
		Role:       chat.RoleBot,
		Text:       botText,
		FeedbackID: strconv.Itoa(len(s.messages) + 1),
		CreatedAt:  now,
	}
	s.messages = append(s.messages, bot)
	return user, bot
}

// Messages returns a copy of the log in chronological order.
func (s *Session) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len returns the number of logged messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Vote records feedback for a bot message. A later vote overwrites an earlier one.
func (s *Session) Vote(feedbackID string, vote chat.Vote) error {
	if !vote.Valid() {
		return ErrInvalidVote
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasFeedbackID(feedbackID) {
		return ErrFeedbackNotFound
	}
	s.votes[feedbackID] = vote
	return nil
}

func (s *Session) hasFeedbackID(feedbackID string) bool {
	if feedbackID == "" {
		return false
	}
	for _, msg := range s.messages {
		if msg.FeedbackID == feedbackID {
			return true
		}
	}
	return false
}

// Votes returns a copy of the recorded feedback keyed by feedback id.
func (s *Session) Votes() map[string]chat.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[string]chat.Vote, len(s.votes))
	for k, v := range s.votes {
		copied[k] = v
	}
	return copied
}

// Reset clears the log and all feedback. Preferences are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make([]chat.Message, 0, 16)
	s.votes = make(map[string]chat.Vote)
}

// Preferences returns the current language and display settings.
func (s *Session) Preferences() chat.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetLanguage changes the reply language for subsequent turns.
func (s *Session) SetLanguage(code string) {
	s.mu.Lock()
	s.prefs.Language = code
	s.mu.Unlock()
}

// SetDarkMode toggles the display preference.
func (s *Session) SetDarkMode(enabled bool) {
	s.mu.Lock()
	s.prefs.DarkMode = enabled
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the whole session.
func (s *Session) Snapshot() chat.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]chat.Message, len(s.messages))
	copy(messages, s.messages)

	votes := make(map[string]chat.Vote, len(s.votes))
	for k, v := range s.votes {
		votes[k] = v
	}

	return chat.Snapshot{
		ID:          s.id,
		Preferences: s.prefs,
		Messages:    messages,
		Votes:       votes,
		CreatedAt:   s.createdAt,
	}
}
