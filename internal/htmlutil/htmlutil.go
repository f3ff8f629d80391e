// Package htmlutil strips vendor-specific markup from ATS pages so the same
// description renders consistently regardless of source, and so generative
// extraction is not fed kilobytes of styling noise.
package htmlutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	emptyTagPattern  = regexp.MustCompile(`<(\w+)>\s*</\w+>`)
	blankRunsPattern = regexp.MustCompile(`(\n\s*){3,}`)
)

// Clean removes scripts, styles, inline attributes, and vendor classes while
// keeping the semantic structure. Input that cannot be parsed comes back
// trimmed but otherwise untouched.
func Clean(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("[style]").RemoveAttr("style")
	doc.Find("[class]").RemoveAttr("class")

	body := doc.Find("body")
	out, err := body.Html()
	if err != nil || strings.TrimSpace(out) == "" {
		return strings.TrimSpace(html)
	}

	out = emptyTagPattern.ReplaceAllString(out, "")
	out = blankRunsPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Text flattens HTML to plain text for keyword and salary scanning.
func Text(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}
