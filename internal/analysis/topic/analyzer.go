package topic

import "strings"

// Intent 表示对话入口的路由结果。
type Intent string

const (
	IntentGeneral   Intent = "general-query"
	IntentLiveScore Intent = "live-cricket-score"
)

// Classifier 判断一段输入是否属于体育话题。
type Classifier interface {
	OnTopic(text string) bool
}

// SportKeywords 是默认的体育关键词表。
var SportKeywords = []string{
	"sport", "football", "cricket", "basketball", "tennis", "athlete", "training",
	"workout", "fitness", "match", "game", "tournament", "olympics", "player", "score",
	"team", "coach", "referee", "goal", "bat", "ball", "run", "race",
}

// KeywordClassifier 使用大小写无关的子串匹配，没有否定、词干或上下文处理。
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier 创建关键词分类器；keywords 为空时使用 SportKeywords。
func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = SportKeywords
	}

	normalized := make([]string, 0, len(keywords))
	for _, word := range keywords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		normalized = append(normalized, word)
	}
	return &KeywordClassifier{keywords: normalized}
}

// OnTopic 只要包含任意关键词即视为体育话题。
func (c *KeywordClassifier) OnTopic(text string) bool {
	normalized := strings.ToLower(text)
	for _, word := range c.keywords {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

// Route 在体育话题内区分实时板球比分与一般问题。
func Route(text string) Intent {
	normalized := strings.ToLower(text)
	if strings.Contains(normalized, "live") && strings.Contains(normalized, "cricket") {
		return IntentLiveScore
	}
	return IntentGeneral
}
