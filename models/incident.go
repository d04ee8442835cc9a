package models

import "strings"

// Feed is the top-level shape of the published police_reports.json document
type Feed struct {
	Reports []ReportFile `json:"reports"`
}

// ReportFile is one scraped report file inside the feed, holding its incidents
type ReportFile struct {
	Filename  string     `json:"filename,omitempty"`
	Date      string     `json:"date,omitempty"`
	Incidents []Incident `json:"incidents"`
}

// Incident is a single canonical incident record. Dates are always
// MM/DD/YYYY once the record has passed through the normalizer.
type Incident struct {
	IncidentCase string `json:"incident_case" bson:"incidentCase"`
	Category     string `json:"category" bson:"category"`
	Location     string `json:"location" bson:"location"`
	DateOccurred string `json:"date_occurred" bson:"dateOccurred"`
	DateReported string `json:"date_reported" bson:"dateReported"`
	TimeOccurred string `json:"time_occurred,omitempty" bson:"timeOccurred,omitempty"`
	TimeReported string `json:"time_reported,omitempty" bson:"timeReported,omitempty"`
	Summary      string `json:"summary" bson:"summary"`
	Disposition  string `json:"disposition,omitempty" bson:"disposition,omitempty"`
}

// userCasePrefix marks case numbers issued for user submissions. The store
// assigns them as USER-<year>-<seq>; the prefix is the interop contract.
const userCasePrefix = "USER-"

// IsUserSubmitted reports whether the incident originated from a user
// submission rather than the official feed
func (i Incident) IsUserSubmitted() bool {
	return strings.HasPrefix(i.IncidentCase, userCasePrefix)
}

// DispositionSlug returns the disposition label as a lowercase,
// hyphen-separated token safe for use as a CSS class
func (i Incident) DispositionSlug() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(i.Disposition)), " ", "-")
}
