package ai

import (
	"fmt"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
)

// BuildSystemPrompt names the reply language. English needs no instruction,
// so the model receives only the user's message.
func BuildSystemPrompt(lang language.Language) string {
	if lang.Code == "" || lang.IsEnglish() {
		return ""
	}

	name := lang.Name
	if lang.NativeName != "" && lang.NativeName != lang.Name {
		name = fmt.Sprintf("%s (%s)", lang.Name, lang.NativeName)
	}
	return fmt.Sprintf("You are a helpful sports assistant. Always reply in %s, whatever language the question uses.", name)
}
