// Package matcher locates the row of a schedule document that belongs to one vessel sailing.
package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/neckchi/vesseleta/internal/schema"
	"golang.org/x/text/cases"
)

// windowLen bounds the text handed to the ETA extractor for non-tabular documents.
const windowLen = 500

// leadLen bounds the text kept from the section above the match.
const leadLen = windowLen / 2

// minVoyageOnlyLen keeps short codes such as "123" from tying random rows to a voyage.
const minVoyageOnlyLen = 4

// Target is what the matcher looks for.
type Target struct {
	VesselName string
	FullName   string
	Variants   []string
}

type matcher struct {
	folder cases.Caser
	doc    document
	target Target
}

// Match scans raw for the vessel row. Voyage variants are only ever tested inside the
// row that holds the vessel name; a voyage seen elsewhere on the page does not count.
func Match(raw string, target Target) schema.MatchCandidate {
	m := &matcher{folder: cases.Fold(), doc: parseDocument(raw), target: target}
	return m.match()
}

// MatchText is Match for terminals that publish free text: tables used for page layout
// are ignored and the document is always split into line sections.
func MatchText(raw string, target Target) schema.MatchCandidate {
	m := &matcher{folder: cases.Fold(), doc: textDocument(raw), target: target}
	return m.match()
}

func (m *matcher) fold(s string) string {
	return m.folder.String(s)
}

func (m *matcher) match() schema.MatchCandidate {
	vessel := m.fold(strings.TrimSpace(m.target.VesselName))
	variants := m.foldedVariants()

	if vessel != "" {
		firstVesselRow := -1
		firstVesselCell := 0
		for i, r := range m.doc.rows {
			cellIdx, ok := m.vesselCell(r, vessel)
			if !ok {
				continue
			}
			if firstVesselRow < 0 {
				firstVesselRow, firstVesselCell = i, cellIdx
			}
			if voyageIdx, ok := m.voyageCell(r, cellIdx, vessel, variants); ok {
				return m.candidate(i, cellIdx, &voyageIdx, schema.VesselAndVoyage)
			}
		}
		if firstVesselRow >= 0 {
			return m.candidate(firstVesselRow, firstVesselCell, nil, schema.VesselOnly)
		}
	}

	if full := despace(m.fold(m.target.FullName)); full != "" {
		for i, r := range m.doc.rows {
			if strings.Contains(despace(m.fold(strings.Join(r.cells, " "))), full) {
				return m.candidate(i, 0, nil, schema.FullNameOnly)
			}
		}
	}

	if len(variants) > 0 && utf8.RuneCountInString(variants[0]) >= minVoyageOnlyLen {
		for i, r := range m.doc.rows {
			for j, cell := range r.cells {
				if strings.Contains(m.fold(cell), variants[0]) {
					voyageIdx := j
					return m.candidate(i, -1, &voyageIdx, schema.VoyageOnly)
				}
			}
		}
	}

	return schema.MatchCandidate{VesselCellIndex: -1, Confidence: schema.NotFound}
}

func (m *matcher) foldedVariants() []string {
	folded := make([]string, 0, len(m.target.Variants))
	for _, v := range m.target.Variants {
		if v = m.fold(strings.TrimSpace(v)); v != "" {
			folded = append(folded, v)
		}
	}
	return folded
}

// vesselCell returns the first cell containing the vessel name. A name split over
// neighbouring cells still matches the row as a whole, anchored at cell 0.
func (m *matcher) vesselCell(r row, vessel string) (int, bool) {
	for j, cell := range r.cells {
		if strings.Contains(m.fold(cell), vessel) {
			return j, true
		}
	}
	if strings.Contains(m.fold(strings.Join(r.cells, " ")), vessel) {
		return 0, true
	}
	return 0, false
}

// voyageCell tests every variant against every cell of the vessel row. The vessel name
// itself is cut out of its cell first so digits in the name cannot pass as a voyage.
func (m *matcher) voyageCell(r row, vesselIdx int, vessel string, variants []string) (int, bool) {
	for _, variant := range variants {
		for j, cell := range r.cells {
			text := m.fold(cell)
			if j == vesselIdx {
				text = strings.Replace(text, vessel, " ", 1)
			}
			if strings.Contains(text, variant) {
				return j, true
			}
		}
	}
	return 0, false
}

func (m *matcher) candidate(rowIdx, vesselIdx int, voyageIdx *int, confidence schema.Confidence) schema.MatchCandidate {
	r := m.doc.rows[rowIdx]
	c := schema.MatchCandidate{
		RowCells:        append([]string(nil), r.cells...),
		HeaderCells:     append([]string(nil), r.header...),
		VesselCellIndex: vesselIdx,
		VoyageCellIndex: voyageIdx,
		Confidence:      confidence,
	}
	if !m.doc.tabular {
		c.Window = m.window(r)
		if rowIdx > 0 {
			c.Lead = tail(m.doc.rows[rowIdx-1].cells[0], leadLen)
		}
	}
	return c
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// window cuts about windowLen characters of document text starting at the matched section.
func (m *matcher) window(r row) string {
	text := m.doc.text
	start, end := r.offset, r.offset+windowLen
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return text[start:end]
}

func despace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
