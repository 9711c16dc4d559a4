package matcher

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nonContentSelectors lists elements stripped before any text is read.
const nonContentSelectors = "script, style, noscript"

var blockBoundary = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|h[1-6]|section|article)>`)

// breakingElements separate words when a cell is flattened to text.
var breakingElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

type row struct {
	cells  []string
	header []string
	// offset of the row in the document text, only set for non-tabular documents
	offset int
}

type document struct {
	rows    []row
	text    string
	tabular bool
}

// cleanText decodes any entities left after parsing and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// parseDocument decodes entities, then splits the content into table rows or, when
// there is no table, into block/line sections.
func parseDocument(raw string) document {
	decoded := html.UnescapeString(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err == nil {
		doc.Find(nonContentSelectors).Remove()
		if rows := tableRows(doc); len(rows) > 0 {
			return document{rows: rows, tabular: true}
		}
	}
	return textSections(decoded)
}

func textDocument(raw string) document {
	return textSections(html.UnescapeString(raw))
}

func tableRows(doc *goquery.Document) []row {
	var rows []row
	var header []string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// a row wrapping a nested table is layout, its inner rows are read on their own
		if tr.Find("tr").Length() > 0 {
			return
		}
		cellSel := tr.ChildrenFiltered("td, th")
		if cellSel.Length() == 0 {
			return
		}
		cells := make([]string, 0, cellSel.Length())
		cellSel.Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if isHeaderRow(tr, cellSel) {
			header = cells
			return
		}
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			return
		}
		rows = append(rows, row{cells: cells, header: header})
	})
	return rows
}

// cellText flattens a cell, putting a space wherever a line break or block element
// would separate words on screen.
func cellText(cell *goquery.Selection) string {
	var b strings.Builder
	for _, n := range cell.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(&b, c)
		}
	}
	return cleanText(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	breaking := n.Type == html.ElementNode && breakingElements[n.Data]
	if breaking {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if breaking {
		b.WriteByte(' ')
	}
}

func isHeaderRow(tr, cells *goquery.Selection) bool {
	if tr.ParentsFiltered("thead").Length() > 0 {
		return true
	}
	return cells.Length() == cells.Filter("th").Length()
}

func textSections(decoded string) document {
	text := decoded
	withBreaks := blockBoundary.ReplaceAllString(decoded, "\n")
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks)); err == nil {
		doc.Find(nonContentSelectors).Remove()
		text = doc.Text()
	}

	var rows []row
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		cleaned := cleanText(line)
		if cleaned == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		rows = append(rows, row{cells: []string{cleaned}, offset: b.Len()})
		b.WriteString(cleaned)
	}
	return document{rows: rows, text: b.String()}
}
