package reports

import (
	"strings"

	"github.com/alexgaoth/campus-crime-api/models"
)

// DefaultSearchLimit caps the returned result window. The match count is
// always reported over the full match set regardless of the cap.
const DefaultSearchLimit = 10

// Query is a committed search. Term is matched as a case-insensitive
// substring of summary, location, or category; Category and Location are
// equality constraints where empty or "all" means no constraint.
type Query struct {
	Term     string
	Category string
	Location string
	Limit    int
}

// Result is the bounded result window plus the untruncated match total
type Result struct {
	Total     int               `json:"total"`
	Incidents []models.Incident `json:"incidents"`
}

// Evaluate runs the query over the canonical collection. With no term and no
// constraints every incident matches, so the result is the first Limit
// incidents in default recency order with Total equal to the collection size.
func Evaluate(incidents []models.Incident, q Query) Result {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	term := strings.ToLower(strings.TrimSpace(q.Term))

	var matches []models.Incident
	for _, inc := range incidents {
		if !matchesTerm(inc, term) {
			continue
		}
		if !matchesConstraint(inc.Category, q.Category) {
			continue
		}
		if !matchesConstraint(inc.Location, q.Location) {
			continue
		}
		matches = append(matches, inc)
	}

	return Result{
		Total:     len(matches),
		Incidents: capSlice(matches, q.Limit),
	}
}

func matchesTerm(inc models.Incident, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inc.Summary), term) ||
		strings.Contains(strings.ToLower(inc.Location), term) ||
		strings.Contains(strings.ToLower(inc.Category), term)
}

func matchesConstraint(value, want string) bool {
	return want == "" || strings.EqualFold(want, "all") || value == want
}
