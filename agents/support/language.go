package support

import (
	"unicode"

	"github.com/caremesh/caremesh/core"
)

// detectLanguage returns Arabic when Arabic script dominates the message's
// letters, English otherwise. Unsupported languages fall back to English.
func detectLanguage(message string) core.Language {
	arabic, letters := 0, 0
	for _, r := range message {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters > 0 && arabic*2 > letters {
		return core.LanguageArabic
	}
	return core.LanguageEnglish
}
