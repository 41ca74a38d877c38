package corpus

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText reduces an HTML document to its visible text. Script and
// style content is removed. Parse failures yield an empty string so a
// malformed document simply produces no matches.
func ExtractText(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()

	// Collect individual text nodes so words from adjacent elements
	// don't run together.
	var parts []string
	doc.Find("*").Contents().Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) != "#text" {
			return
		}
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
