package language

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnsupportedLanguage 表示请求的语言不在可选列表中。
var ErrUnsupportedLanguage = errors.New("unsupported language")

// English 是默认语言，也是话题判断与比分接口使用的内部语言。
var English = language.English

// Language 描述一个可供选择的回复语言。
type Language struct {
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	NativeName string       `json:"nativeName"`
	Tag        language.Tag `json:"-"`
}

// IsEnglish 判断是否与内部语言一致，一致时无需翻译。
func (l Language) IsEnglish() bool {
	base, _ := l.Tag.Base()
	en, _ := English.Base()
	return base == en
}

// Seed 返回固定的语言列表。
func Seed() []Language {
	tags := []language.Tag{
		language.English,
		language.Hindi,
		language.Spanish,
		language.French,
		language.German,
		language.Bengali,
		language.Tamil,
		language.Urdu,
		language.Arabic,
		language.SimplifiedChinese,
	}

	items := make([]Language, 0, len(tags))
	for _, tag := range tags {
		items = append(items, newLanguage(tag))
	}
	return items
}

func newLanguage(tag language.Tag) Language {
	return Language{
		Code:       tag.String(),
		Name:       display.English.Tags().Name(tag),
		NativeName: display.Self.Name(tag),
		Tag:        tag,
	}
}

// Pivot returns the language the gate, router and score API operate in.
func Pivot() Language {
	return newLanguage(English)
}

// Normalize 统一代码大小写与分隔符，例如 "ZH_hans" -> "zh-Hans"。
func Normalize(code string) (string, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return English.String(), nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", ErrUnsupportedLanguage
	}
	return tag.String(), nil
}
