// Package eta pulls arrival and departure timestamps out of schedule row text.
package eta

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/neckchi/vesseleta/internal/schema"
	"golang.org/x/net/html"
)

type label int

const (
	unlabeled label = iota
	arrival
	departure
)

var (
	arrivalLabel   = regexp.MustCompile(`(?i)\b(ETA|ATA|ETB|ATB|ARRIV\w*|BERTH\w*|VOY(?:AGE)?[ .-]?IN|IN[ .-]?VOY(?:AGE)?|INBOUND)\b`)
	departureLabel = regexp.MustCompile(`(?i)\b(ETD|ATD|DEPART\w*|SAIL\w*|VOY(?:AGE)?[ .-]?OUT|OUT[ .-]?VOY(?:AGE)?|OUTBOUND)\b`)
)

// labelPrefixLen bounds how much text before a date is read for an arrival/departure label.
const labelPrefixLen = 32

type candidate struct {
	at      time.Time
	hasTime bool
	cell    int
	pos     int
	label   label
	text    string
}

// Extraction is the outcome of scanning one matched row.
type Extraction struct {
	ETA      *string
	ETD      *string
	Evidence string
}

func classify(text string) label {
	a := arrivalLabel.FindAllStringIndex(text, -1)
	d := departureLabel.FindAllStringIndex(text, -1)
	switch {
	case len(a) == 0 && len(d) == 0:
		return unlabeled
	case len(d) == 0:
		return arrival
	case len(a) == 0:
		return departure
	case a[len(a)-1][0] > d[len(d)-1][0]:
		return arrival
	default:
		return departure
	}
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// scanCell finds every date or date+time in one cell, in text order.
func scanCell(idx int, cell, header string) []candidate {
	var found []candidate
	var taken []span
	for _, s := range shapes {
		for _, loc := range s.pattern.FindAllStringSubmatchIndex(cell, -1) {
			if overlaps(taken, loc[0], loc[1]) {
				continue
			}
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = cell[loc[2*g]:loc[2*g+1]]
				}
			}
			at, ok := s.fromMatch(groups)
			if !ok {
				continue
			}
			taken = append(taken, span{loc[0], loc[1]})
			found = append(found, candidate{at: at, hasTime: s.hasTime, cell: idx, pos: loc[0], text: groups[0]})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	prev := 0
	for i := range found {
		from := found[i].pos - labelPrefixLen
		if from < prev {
			from = prev
		}
		found[i].label = classify(cell[from:found[i].pos])
		if found[i].label == unlabeled {
			found[i].label = classify(header)
		}
		prev = found[i].pos + len(found[i].text)
	}
	return found
}

func collect(cells, header []string) []candidate {
	var all []candidate
	for i, raw := range cells {
		cell := strings.Join(strings.Fields(html.UnescapeString(raw)), " ")
		h := ""
		if i < len(header) {
			h = header[i]
		}
		found := scanCell(i, cell, h)
		// a lone date followed by a time-only sibling cell is one date+time value
		if len(found) == 1 && !found[0].hasTime && i+1 < len(cells) {
			next := strings.TrimSpace(html.UnescapeString(cells[i+1]))
			if hour, minute, second, ok := parseTimeOnly(next); ok {
				d := found[0].at
				found[0].at = time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, time.UTC)
				found[0].hasTime = true
				found[0].text = found[0].text + " " + next
			}
		}
		all = append(all, found...)
	}
	return all
}

// pick applies the precedence inside one pool: the first arrival-labeled candidate,
// then the first candidate that is not a departure, then the first candidate.
func pick(pool []candidate) *candidate {
	for i := range pool {
		if pool[i].label == arrival {
			return &pool[i]
		}
	}
	for i := range pool {
		if pool[i].label != departure {
			return &pool[i]
		}
	}
	if len(pool) > 0 {
		return &pool[0]
	}
	return nil
}

func firstDeparture(pool []candidate, chosen *candidate) *candidate {
	for i := range pool {
		if pool[i].label == departure && (pool[i].cell != chosen.cell || pool[i].pos != chosen.pos) {
			return &pool[i]
		}
	}
	return nil
}

// Extract scans the cells of a matched row. Cells that carry no recognisable date are
// skipped; an unparseable value never produces a timestamp.
func Extract(cells, header []string) Extraction {
	all := collect(cells, header)
	var full, dateOnly []candidate
	for _, c := range all {
		if c.hasTime {
			full = append(full, c)
		} else {
			dateOnly = append(dateOnly, c)
		}
	}

	pool := dateOnly
	if len(full) > 0 {
		pool = full
	}
	var out Extraction
	chosen := pick(pool)
	if chosen == nil {
		return out
	}
	etaValue := chosen.at.Format(Layout)
	out.ETA, out.Evidence = &etaValue, chosen.text

	dep := firstDeparture(full, chosen)
	if dep == nil {
		dep = firstDeparture(dateOnly, chosen)
	}
	if dep != nil && !dep.at.Equal(chosen.at) {
		etdValue := dep.at.Format(Layout)
		out.ETD = &etdValue
	}
	return out
}

// ExtractFromCandidate reads the matched row first. For non-tabular matches whose section
// carries no date, the text window following the match is read next and the section
// just above the match last.
func ExtractFromCandidate(c schema.MatchCandidate) Extraction {
	ex := Extract(c.RowCells, c.HeaderCells)
	if ex.ETA == nil && c.Window != "" {
		ex = Extract([]string{c.Window}, nil)
	}
	if ex.ETA == nil && c.Lead != "" {
		ex = Extract([]string{c.Lead}, nil)
	}
	return ex
}

var exactLayouts = []string{Layout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// Normalize re-parses a timestamp produced elsewhere (e.g. by the rendering collaborator)
// into Layout. ok is false when the value is not a valid calendar date.
func Normalize(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, layout := range exactLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(Layout), true
		}
	}
	ex := Extract([]string{value}, nil)
	if ex.ETA == nil {
		return "", false
	}
	return *ex.ETA, true
}
