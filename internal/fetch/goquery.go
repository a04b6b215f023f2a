// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateSelector matches elements that never carry article text.
const boilerplateSelector = "script, style, noscript, template, svg, iframe, form, nav, aside, header, footer"

// blockSelector matches the elements whose text becomes one paragraph each.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td"

// extractWithGoquery returns the document title and body text after stripping
// boilerplate. It prefers <article>, then <main>, then <body>.
func extractWithGoquery(html []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(boilerplateSelector).Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var paragraphs []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are covered by their outermost block.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if p := strings.Join(strings.Fields(s.Text()), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
	})

	if len(paragraphs) == 0 {
		return title, normalizeText(root.Text()), nil
	}
	return title, strings.Join(paragraphs, "\n\n"), nil
}
