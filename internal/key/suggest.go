package key

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the known id closest to an unknown one, for "did you
// mean" hints. Known ids are registered keys, their variants and toggle
// sub-states. Matching ignores case; a candidate is accepted when it is
// within a third of the longer id's length (at least 2 edits).
func (r *Registry) Suggest(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	candidates := make([]string, 0, len(r.group)+len(r.toggleRoot))
	for c := range r.group {
		candidates = append(candidates, c)
	}
	for c := range r.toggleRoot {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	want := strings.ToLower(id)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(want, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return "", false
	}
	limit := max(len(id), len(best)) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist > limit {
		return "", false
	}
	return best, true
}
