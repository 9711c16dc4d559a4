// Package descriptor splits free-text vessel descriptors and expands voyage codes.
package descriptor

import (
	"regexp"
	"strings"

	"github.com/neckchi/vesseleta/internal/schema"
)

type rule struct {
	method  schema.ParsingMethod
	pattern *regexp.Regexp
	// prefixFree rules must not leave a dangling voyage prefix at the end of the name
	prefixFree bool
}

// cascade is tried in order, first match wins
var cascade = []rule{
	{schema.ParsedVDotPrefix, regexp.MustCompile(`(?i)^(.+?)\s+(V\.\d+[A-Z0-9]*)$`), false},
	{schema.ParsedVPrefix, regexp.MustCompile(`(?i)^(.+?)\s+(V\d+[A-Z0-9]*)$`), false},
	{schema.ParsedLetterPrefix, regexp.MustCompile(`(?i)^(.+?)\s+([A-Z]\d+[A-Z0-9]*)$`), true},
	{schema.ParsedDigitAlnum, regexp.MustCompile(`(?i)^(.+?)\s+(\d[A-Z0-9]{5,})$`), true},
	{schema.ParsedNumeric, regexp.MustCompile(`(?i)^(.+?)\s+(\d{3,})$`), true},
	{schema.ParsedVDotSpace, regexp.MustCompile(`(?i)^(.+?)\s+(V\.\s\d+[A-Z0-9]*)$`), false},
	{schema.ParsedVDotHyphen, regexp.MustCompile(`(?i)^(.+?)\s+(V\.\d+-\d+[A-Z0-9]*)$`), false},
}

// voyageShapes is what a lone token has to look like to be taken as a voyage code.
var voyageShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^V\.?\d+[A-Z0-9]*$`),
	regexp.MustCompile(`(?i)^[A-Z]\d+[A-Z0-9]*$`),
	regexp.MustCompile(`(?i)^\d[A-Z0-9]{5,}$`),
	regexp.MustCompile(`^\d{3,}$`),
	regexp.MustCompile(`(?i)^V\.\d+-\d+[A-Z0-9]*$`),
	regexp.MustCompile(`(?i)^\d+-\d+[A-Z0-9]*$`),
}

var danglingPrefix = regexp.MustCompile(`(?i)\sV\.?$`)

// Normalize trims the text and collapses every whitespace run to a single space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// LooksLikeVoyage reports whether a single token has one of the voyage code shapes.
func LooksLikeVoyage(token string) bool {
	for _, shape := range voyageShapes {
		if shape.MatchString(token) {
			return true
		}
	}
	return false
}

// Parse splits raw into vessel name and voyage code. It never fails; input that matches
// no rule becomes a vessel name without a voyage.
func Parse(raw string) schema.VesselDescriptor {
	text := Normalize(raw)
	d := schema.VesselDescriptor{RawText: raw, FullName: text}
	if text == "" {
		d.ParsingMethod = schema.ParsedEmptyInput
		return d
	}

	for _, r := range cascade {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if r.prefixFree && (danglingPrefix.MatchString(" "+name) || name == "") {
			continue
		}
		d.VesselName, d.VoyageCode, d.ParsingMethod = name, m[2], r.method
		return d
	}

	if i := strings.LastIndexByte(text, ' '); i > 0 {
		last := text[i+1:]
		if LooksLikeVoyage(last) {
			d.VesselName, d.VoyageCode, d.ParsingMethod = text[:i], last, schema.ParsedLastWord
			return d
		}
	}

	d.VesselName, d.ParsingMethod = text, schema.ParsedNoVoyage
	return d
}
