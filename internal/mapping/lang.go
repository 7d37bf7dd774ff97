package mapping

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage validates a two-letter ISO 639-1 code and returns it in
// canonical lower-case form.
func NormalizeLanguage(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", fmt.Errorf("invalid language %q: want a two-letter code", code)
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", code, err)
	}
	return base.String(), nil
}

// ParseLanguages normalizes a list of codes, dropping duplicates and the
// canonical language. Order of first appearance is kept.
func ParseLanguages(codes []string, canonical string) ([]string, error) {
	seen := make(map[string]bool, len(codes))
	var out []string
	for _, c := range codes {
		lang, err := NormalizeLanguage(c)
		if err != nil {
			return nil, err
		}
		if lang == canonical || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out, nil
}
