package shopfeed

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML reduces a markup string to its visible text content.
// Tags are removed, entities are decoded by the tokenizer, and
// whitespace is collapsed to single spaces at text boundaries. Empty
// input yields empty text. Malformed markup degrades to best-effort
// extraction; this function never fails.
func StripHTML(markup string) string {
	if markup == "" {
		return ""
	}

	var parts []string
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			// io.EOF for well-formed input; anything else means the
			// tokenizer gave up, so return what was extracted so far.
			break
		}
		if tokenType != html.TextToken {
			continue
		}
		text := strings.TrimSpace(tokenizer.Token().Data)
		if text != "" {
			parts = append(parts, collapseWhitespace(text))
		}
	}
	return strings.Join(parts, " ")
}

// collapseWhitespace folds runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
