package language

import "golang.org/x/text/language"

// Store exposes the selectable languages to handlers and services.
type Store interface {
	List() []Language
	Find(code string) (Language, error)
	Default() Language
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items   []Language
	matcher language.Matcher
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied languages.
// The first entry is the default selection.
func NewMemoryStore(items []Language) *MemoryStore {
	store := &MemoryStore{items: append([]Language(nil), items...)}
	if len(store.items) > 0 {
		tags := make([]language.Tag, 0, len(store.items))
		for _, item := range store.items {
			tags = append(tags, item.Tag)
		}
		store.matcher = language.NewMatcher(tags)
	}
	return store
}

// List returns the selectable languages in display order.
func (s *MemoryStore) List() []Language {
	return append([]Language(nil), s.items...)
}

// Find resolves a language code. An empty code selects the default language.
// Regional variants such as "en-US" or "zh-CN" resolve to the closest entry
// when the match confidence is at least High.
func (s *MemoryStore) Find(code string) (Language, error) {
	if code == "" {
		return s.Default(), nil
	}

	normalized, err := Normalize(code)
	if err != nil {
		return Language{}, err
	}

	for _, item := range s.items {
		if item.Code == normalized {
			return item, nil
		}
	}

	if s.matcher == nil {
		return Language{}, ErrUnsupportedLanguage
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return Language{}, ErrUnsupportedLanguage
	}
	if _, index, confidence := s.matcher.Match(tag); confidence >= language.High {
		return s.items[index], nil
	}
	return Language{}, ErrUnsupportedLanguage
}

// Default returns the first configured language, falling back to English.
func (s *MemoryStore) Default() Language {
	if len(s.items) == 0 {
		return newLanguage(English)
	}
	return s.items[0]
}
