package translate

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	newlineRe    = regexp.MustCompile(`\s*[\r\n]+\s*`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
)

// StripMarkup returns the text content of an HTML fragment, with every run of
// line breaks replaced by sep and repeated spaces collapsed.
func StripMarkup(s, sep string) string {
	if s == "" {
		return ""
	}

	text := s
	if strings.ContainsAny(s, "<&") {
		text = htmlText(s)
	}

	text = strings.TrimSpace(text)
	text = newlineRe.ReplaceAllString(text, sep)
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func htmlText(s string) string {
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return tokenText(s)
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for _, n := range nodes {
		extract(n)
	}
	return buf.String()
}

// tokenText extracts text with the tokenizer alone. Markup is always dropped,
// even when the fragment cannot be parsed into a tree.
func tokenText(s string) string {
	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				buf.WriteString("\n")
			}
		}
	}
}

// CleanGlosses strips markup from each gloss, drops empty ones and
// duplicates, and keeps first-occurrence order. Returns nil when nothing is left.
func CleanGlosses(raw []string, sep string) []string {
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		g := StripMarkup(r, sep)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
