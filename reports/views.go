package reports

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"time"

	"github.com/alexgaoth/campus-crime-api/models"
)

// TopRecentConfig parametrizes the "most significant recent" view. Different
// pages use the same computation with different constants (home shows 3,
// the featured rail shows 15).
type TopRecentConfig struct {
	WindowDays int
	Limit      int
}

// DefaultWindowDays is the trailing occurrence window used when none is given
const DefaultWindowDays = 5

// TopRecent returns up to cfg.Limit incidents whose occurrence date falls
// within the trailing window ending at today (inclusive), ranked by summary
// length descending as a significance proxy. Future-dated incidents never
// appear. When the window holds nothing, the first cfg.Limit incidents in
// default recency order are returned and fromFallback is true.
func TopRecent(incidents []models.Incident, today time.Time, cfg TopRecentConfig) (result []models.Incident, fromFallback bool) {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	day := truncateToDay(today)
	windowStart := day.AddDate(0, 0, -cfg.WindowDays)

	var recent []models.Incident
	for _, inc := range incidents {
		occurred, ok := ParseDate(inc.DateOccurred)
		if !ok {
			continue
		}
		if occurred.Before(windowStart) || occurred.After(day) {
			continue
		}
		recent = append(recent, inc)
	}

	if len(recent) == 0 {
		return capSlice(incidents, cfg.Limit), true
	}

	// character count, not byte length, so multi-byte text is not over-weighted
	sort.SliceStable(recent, func(a, b int) bool {
		return utf8.RuneCountInString(recent[a].Summary) > utf8.RuneCountInString(recent[b].Summary)
	})
	return capSlice(recent, cfg.Limit), false
}

// UniqueCategories returns the distinct category labels, skipping values
// with no alphabetic character (blank and placeholder entries)
func UniqueCategories(incidents []models.Incident) []string {
	return uniqueValues(incidents, func(i models.Incident) string { return i.Category })
}

// UniqueLocations returns the distinct location names, skipping values with
// no alphabetic character
func UniqueLocations(incidents []models.Incident) []string {
	return uniqueValues(incidents, func(i models.Incident) string { return i.Location })
}

func uniqueValues(incidents []models.Incident, key func(models.Incident) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, inc := range incidents {
		v := key(inc)
		if seen[v] || !hasLetter(v) {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var clockPattern = regexp.MustCompile(`(?i)(\d+):(\d+)\s*(AM|PM)`)

// HourFromClock parses a wall-clock string like "2:35 PM" into an hour of
// day 0-23. 12 AM maps to 0, 12 PM to 12. Unparseable strings and
// out-of-range hours return false.
func HourFromClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	isPM := strings.EqualFold(m[3], "PM")
	if isPM && hour != 12 {
		hour += 12
	} else if !isPM && hour == 12 {
		hour = 0
	}
	if hour < 0 || hour >= 24 {
		return 0, false
	}
	return hour, true
}

// HourlyDistributions computes the two parallel 24-bucket histograms: when
// incidents occurred and when they were reported. The reported histogram
// falls back to the occurrence time when no reported time exists. Incidents
// with no parseable time are skipped, not counted.
func HourlyDistributions(incidents []models.Incident) (occurred, reported [24]int) {
	for _, inc := range incidents {
		if hour, ok := HourFromClock(inc.TimeOccurred); ok {
			occurred[hour]++
		}
		reportedTime := inc.TimeReported
		if reportedTime == "" {
			reportedTime = inc.TimeOccurred
		}
		if hour, ok := HourFromClock(reportedTime); ok {
			reported[hour]++
		}
	}
	return occurred, reported
}

// DateGroup is one directory bucket: every incident that occurred on Date,
// in collection order
type DateGroup struct {
	Date      string            `json:"date"`
	Incidents []models.Incident `json:"incidents"`
}

// GroupByDate partitions the collection by exact occurrence date, newest
// date first. Incidents dated after today are dropped, so future-dated feed
// entries never show up in the directory or its calendar.
func GroupByDate(incidents []models.Incident, today time.Time) []DateGroup {
	day := truncateToDay(today)
	byDate := make(map[string][]models.Incident)
	var order []string
	for _, inc := range incidents {
		occurred, ok := ParseDate(inc.DateOccurred)
		if !ok || occurred.After(day) {
			continue
		}
		if _, exists := byDate[inc.DateOccurred]; !exists {
			order = append(order, inc.DateOccurred)
		}
		byDate[inc.DateOccurred] = append(byDate[inc.DateOccurred], inc)
	}

	sort.SliceStable(order, func(a, b int) bool {
		ta, _ := ParseDate(order[a])
		tb, _ := ParseDate(order[b])
		return ta.After(tb)
	})

	groups := make([]DateGroup, 0, len(order))
	for _, date := range order {
		groups = append(groups, DateGroup{Date: date, Incidents: byDate[date]})
	}
	return groups
}

// LocationAggregate is one ranked location with the incidents grouped under it
type LocationAggregate struct {
	Name      string            `json:"name"`
	Count     int               `json:"count"`
	Incidents []models.Incident `json:"incidents"`
}

// RankLocations groups the collection by location and ranks by incident
// count descending (ties keep first-seen order). A limit of 20 is typical
// for display weight; limit <= 0 returns every location.
func RankLocations(incidents []models.Incident, limit int) []LocationAggregate {
	byName := make(map[string]int)
	var aggs []LocationAggregate
	for _, inc := range incidents {
		idx, exists := byName[inc.Location]
		if !exists {
			byName[inc.Location] = len(aggs)
			aggs = append(aggs, LocationAggregate{Name: inc.Location})
			idx = len(aggs) - 1
		}
		aggs[idx].Count++
		aggs[idx].Incidents = append(aggs[idx].Incidents, inc)
	}

	sort.SliceStable(aggs, func(a, b int) bool {
		return aggs[a].Count > aggs[b].Count
	})
	if limit > 0 && len(aggs) > limit {
		aggs = aggs[:limit]
	}
	return aggs
}

func capSlice(incidents []models.Incident, limit int) []models.Incident {
	if limit > 0 && len(incidents) > limit {
		incidents = incidents[:limit]
	}
	// copy so callers can never reach back into the canonical collection
	out := make([]models.Incident, len(incidents))
	copy(out, incidents)
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
