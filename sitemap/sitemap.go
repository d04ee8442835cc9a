package sitemap

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

// MaxIncidentEntries caps how many incident URLs the sitemap carries
const MaxIncidentEntries = 20

// staticPage is a fixed top-level page with its crawl hints
type staticPage struct {
	path       string
	priority   string
	changefreq string
}

var staticPages = []staticPage{
	{"/", "1.0", "daily"},
	{"/timeline", "0.8", "daily"},
	{"/search", "0.8", "weekly"},
	{"/statistics", "0.8", "weekly"},
	{"/campus-map", "0.8", "weekly"},
	{"/report-case", "0.7", "monthly"},
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

var unsafeCasePattern = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Generate renders a sitemap for the fixed pages plus up to the 20 most
// recent incidents by occurrence date descending
func Generate(incidents []models.Incident, baseURL string, today time.Time) ([]byte, error) {
	currentDate := today.Format("2006-01-02")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        baseURL + page.path,
			LastMod:    currentDate,
			ChangeFreq: page.changefreq,
			Priority:   page.priority,
		})
	}

	for _, inc := range topByOccurrence(incidents, MaxIncidentEntries) {
		lastMod := currentDate
		if occurred, ok := reports.ParseDate(inc.DateOccurred); ok {
			lastMod = occurred.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        fmt.Sprintf("%s/incident/%s", baseURL, unsafeCasePattern.ReplaceAllString(inc.IncidentCase, "-")),
			LastMod:    lastMod,
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func topByOccurrence(incidents []models.Incident, count int) []models.Incident {
	var withDates []models.Incident
	for _, inc := range incidents {
		if inc.IncidentCase == "" {
			continue
		}
		if _, ok := reports.ParseDate(inc.DateOccurred); !ok {
			continue
		}
		withDates = append(withDates, inc)
	}

	sort.SliceStable(withDates, func(a, b int) bool {
		ta, _ := reports.ParseDate(withDates[a].DateOccurred)
		tb, _ := reports.ParseDate(withDates[b].DateOccurred)
		return ta.After(tb)
	})

	if len(withDates) > count {
		withDates = withDates[:count]
	}
	return withDates
}
