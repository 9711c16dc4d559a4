package descriptor

import (
	"regexp"
	"strings"
)

var letterPrefix = regexp.MustCompile(`^[A-Za-z]+\.?`)

// Variants expands a voyage code into the forms it may take on a terminal page.
// The original code is always first; an empty code yields [""] which callers treat
// as "no voyage constraint".
func Variants(voyage string) []string {
	variants := []string{voyage}
	if voyage == "" {
		return variants
	}
	seen := map[string]bool{voyage: true}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	if loc := letterPrefix.FindStringIndex(voyage); loc != nil {
		add(voyage[loc[1]:])
	}
	add(strings.NewReplacer(".", "", " ", "").Replace(voyage))
	if fields := strings.Fields(voyage); strings.Contains(voyage, " ") && len(fields) > 0 {
		add(fields[len(fields)-1])
	}
	return variants
}
