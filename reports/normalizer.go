package reports

import (
	"regexp"
	"sort"
	"time"

	"github.com/alexgaoth/campus-crime-api/models"
)

// canonical date layout for the collection; the scraper occasionally emits
// ISO dates, which must be rewritten before anything sorts or groups on them
const dateLayout = "01/02/2006"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDate rewrites a YYYY-MM-DD date into MM/DD/YYYY. Dates already in
// MM/DD/YYYY (or anything else) pass through unchanged, so the rewrite is
// idempotent.
func NormalizeDate(s string) string {
	if !isoDatePattern.MatchString(s) {
		return s
	}
	// zero-padding is preserved by moving the digit groups verbatim
	return s[5:7] + "/" + s[8:10] + "/" + s[0:4]
}

// ParseDate parses a canonical MM/DD/YYYY date. The zero time and false are
// returned for anything unparseable.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, NormalizeDate(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Normalize flattens the two-level feed into the canonical collection:
// one sequence of incidents with canonical dates, ordered by date reported
// descending. The sort is stable, so incidents reported on the same day keep
// their original feed order.
func Normalize(feed models.Feed) []models.Incident {
	var incidents []models.Incident
	for _, file := range feed.Reports {
		incidents = append(incidents, file.Incidents...)
	}

	for i := range incidents {
		incidents[i].DateOccurred = NormalizeDate(incidents[i].DateOccurred)
		incidents[i].DateReported = NormalizeDate(incidents[i].DateReported)
	}

	sort.SliceStable(incidents, func(a, b int) bool {
		ta, okA := ParseDate(incidents[a].DateReported)
		tb, okB := ParseDate(incidents[b].DateReported)
		if !okA || !okB {
			// unparseable dates sink to the end, parseable ones win
			return okA && !okB
		}
		return ta.After(tb)
	})

	return incidents
}
