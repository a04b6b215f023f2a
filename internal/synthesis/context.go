// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis assembles parsed pages into the markdown context document
// and writes the run's output files.
package synthesis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// BuildContext renders the context document: a heading with the query, the
// search service's short answer when present, a source index, then one
// section per page with its URL and metadata above the body text. Pages appear
// in the order given; BuildContext does not filter or reorder them.
func BuildContext(query, answer string, pages []types.Page) string {
	md := markdown.NewMarkdown(io.Discard)

	md.H1("Research Context: " + singleLine(query))
	md.PlainText("")
	md.PlainTextf("%s %s", markdown.Bold("Query:"), query)
	md.PlainText("")

	if answer != "" {
		md.H2("Search Answer")
		md.PlainText("")
		md.Blockquote(answer)
		md.PlainText("")
	}

	md.H2("Sources")
	md.PlainText("")
	if len(pages) == 0 {
		md.PlainText("No pages could be parsed.")
		md.PlainText("")
		return md.String()
	}

	rows := make([][]string, 0, len(pages))
	for i, p := range pages {
		rows = append(rows, []string{strconv.Itoa(i + 1), escapeCell(pageTitle(p)), p.URL})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "URL"},
		Rows:   rows,
	})
	md.PlainText("")

	for i, p := range pages {
		md.H2(fmt.Sprintf("%d. %s", i+1, singleLine(pageTitle(p))))
		md.PlainText("")

		meta := []string{"URL: " + markdown.Link(p.URL, p.URL)}
		if p.SiteName != "" {
			meta = append(meta, "Site: "+p.SiteName)
		}
		if p.Byline != "" {
			meta = append(meta, "Byline: "+p.Byline)
		}
		if p.Truncated {
			meta = append(meta, "Note: text truncated")
		}
		md.BulletList(meta...)
		md.PlainText("")
		md.PlainText(p.Text)
		md.PlainText("")
	}

	return md.String()
}

func pageTitle(p types.Page) string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return p.URL
}

// singleLine flattens s for use in a heading.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeCell keeps a value from breaking a markdown table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}
