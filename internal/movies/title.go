package movies

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	pkgerrors "github.com/indiereel/backend/pkg/errors"
)

const msgTitleNotEnglish = "Movie title should be in English i.e., characters [A-Z] and [0-9]"

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeTitle collapses whitespace, rejects non-ASCII titles and title-cases the rest.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
	if title == "" {
		return "", pkgerrors.Validation("title is required")
	}
	for _, r := range title {
		if r > unicode.MaxASCII {
			return "", pkgerrors.Validation(msgTitleNotEnglish)
		}
	}
	return cases.Title(language.English).String(title), nil
}
