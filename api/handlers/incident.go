package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/geocode"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

// Incident serves every view derived from the canonical feed collection
type Incident struct {
	Provider *reports.Provider
	Clock    clockwork.Clock
	Geocoder geocode.Geocoder
}

// collection returns the canonical collection or writes the loading-failed
// response and reports false
func (i Incident) collection(w http.ResponseWriter) ([]models.Incident, bool) {
	incidents, err := i.Provider.Incidents()
	if err != nil {
		config.ErrorStatus("incident feed unavailable", http.StatusServiceUnavailable, w, err)
		return nil, false
	}
	return incidents, true
}

// IncidentsHandler returns the canonical collection in default recency
// order, optionally windowed by limit and page
func (i Incident) IncidentsHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	page := queryInt(r, "page", 0)
	total := len(incidents)

	if limit > 0 {
		start := page * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		incidents = incidents[start:end]
	}

	writeJSON(w, map[string]interface{}{
		"total":     total,
		"incidents": incidents,
	})
}

// IncidentByCaseHandler returns a single incident by its case number
func (i Incident) IncidentByCaseHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	caseNumber := mux.Vars(r)["incident_case"]
	for _, inc := range incidents {
		if inc.IncidentCase == caseNumber {
			writeJSON(w, map[string]interface{}{
				"incident":      inc,
				"userSubmitted": inc.IsUserSubmitted(),
			})
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"response": "incident not found"}`))
}

// TopRecentHandler returns the most significant recent incidents: summary
// length ranks within a trailing occurrence window, with an explicit
// fallback to plain recency order when the window is empty
func (i Incident) TopRecentHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	cfg := reports.TopRecentConfig{
		WindowDays: queryInt(r, "windowDays", reports.DefaultWindowDays),
		Limit:      queryInt(r, "limit", 3),
	}
	top, fromFallback := reports.TopRecent(incidents, i.Clock.Now(), cfg)

	writeJSON(w, map[string]interface{}{
		"incidents":    top,
		"fromFallback": fromFallback,
	})
}

// SearchHandler evaluates a committed search query and reports the
// untruncated match total next to the capped result window
func (i Incident) SearchHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	result := reports.Evaluate(incidents, reports.Query{
		Term:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
		Limit:    queryInt(r, "limit", reports.DefaultSearchLimit),
	})
	writeJSON(w, result)
}

// CategoriesHandler returns the distinct category labels for filter menus
func (i Incident) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}
	writeJSON(w, map[string]interface{}{"categories": reports.UniqueCategories(incidents)})
}

// LocationsHandler returns the distinct location names for filter menus
func (i Incident) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}
	writeJSON(w, map[string]interface{}{"locations": reports.UniqueLocations(incidents)})
}

// HourlyHandler returns the two parallel 24-bucket histograms for the
// timeline charts
func (i Incident) HourlyHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	occurred, reported := reports.HourlyDistributions(incidents)
	writeJSON(w, map[string]interface{}{
		"occurred": occurred,
		"reported": reported,
	})
}

// DirectoryHandler returns the collection grouped by occurrence date,
// newest first, plus the list of available dates for the calendar
func (i Incident) DirectoryHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	groups := reports.GroupByDate(incidents, i.Clock.Now())
	dates := make([]string, 0, len(groups))
	for _, g := range groups {
		dates = append(dates, g.Date)
	}
	writeJSON(w, map[string]interface{}{
		"availableDates": dates,
		"groups":         groups,
	})
}

// LocationRankingHandler returns locations ranked by incident count. With
// mappable=true, locations that do not geocode to one precise point are
// dropped (map view only); without a geocoder the filter is skipped.
func (i Incident) LocationRankingHandler(w http.ResponseWriter, r *http.Request) {
	incidents, ok := i.collection(w)
	if !ok {
		return
	}

	ranked := reports.RankLocations(incidents, queryInt(r, "limit", 20))

	if mappable, _ := strconv.ParseBool(r.URL.Query().Get("mappable")); mappable {
		if i.Geocoder == nil {
			zap.S().Warn("mappable filter requested but no geocoder configured, skipping")
		} else {
			filtered := ranked[:0]
			for _, agg := range ranked {
				result, err := i.Geocoder.ForwardGeocode(r.Context(), agg.Name)
				if err != nil {
					zap.S().Warnw("geocoding failed, excluding location from map view",
						"location", agg.Name,
						"error", err,
					)
					continue
				}
				if geocode.Mappable(result) {
					filtered = append(filtered, agg)
				}
			}
			ranked = filtered
		}
	}

	writeJSON(w, map[string]interface{}{"locations": ranked})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
