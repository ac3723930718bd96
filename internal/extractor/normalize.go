package extractor

import "regexp"

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// Normalize flattens document text onto one logical line. Columnar PDF text
// splits a result row across lines depending on page layout; collapsing every
// run of line breaks into a single space keeps the row pattern contiguous.
func Normalize(text string) string {
	return lineBreaks.ReplaceAllString(text, " ")
}
