package topic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifierMatchesEveryKeywordInAnyCase(t *testing.T) {
	c := NewKeywordClassifier()
	for _, word := range SportKeywords {
		assert.True(t, c.OnTopic("tell me about "+strings.ToUpper(word)), word)
		assert.True(t, c.OnTopic("xx"+word+"yy"), word)
	}
}

func TestKeywordClassifierRejectsUnrelatedText(t *testing.T) {
	c := NewKeywordClassifier()
	assert.False(t, c.OnTopic("I love painting"))
	assert.False(t, c.OnTopic(""))
	assert.False(t, c.OnTopic("What is the weather like today?"))
}

func TestKeywordClassifierIsOverPermissive(t *testing.T) {
	// "goal" in an unrelated sense still passes.
	assert.True(t, NewKeywordClassifier().OnTopic("My goal this year is to save money"))
}

func TestKeywordClassifierCustomLexicon(t *testing.T) {
	c := NewKeywordClassifier(" Chess ", "")
	assert.True(t, c.OnTopic("chess openings"))
	assert.False(t, c.OnTopic("football"))
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"both words", "What is the score of the live cricket match?", IntentLiveScore},
		{"reversed order and case", "CRICKET scores LIVE please", IntentLiveScore},
		{"substring match", "deliver me cricketing news", IntentLiveScore},
		{"only cricket", "who won the cricket world cup", IntentGeneral},
		{"only live", "live football scores", IntentGeneral},
		{"neither", "best tennis rackets", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.text))
		})
	}
}
