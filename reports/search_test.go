package reports_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

func TestEvaluate_TermMatchesAcrossFields(t *testing.T) {
	incidents := []models.Incident{
		{IncidentCase: "A", Summary: "Bicycle stolen from rack", Location: "Main Library", Category: "Theft"},
		{IncidentCase: "B", Summary: "Broken window", Location: "Bicycle shed", Category: "Vandalism"},
		{IncidentCase: "C", Summary: "Noise complaint", Location: "Dorm West", Category: "Disturbance"},
	}

	result := reports.Evaluate(incidents, reports.Query{Term: "bicycle"})
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Incidents, 2)

	result = reports.Evaluate(incidents, reports.Query{Term: "BICYCLE"})
	assert.Equal(t, 2, result.Total, "matching is case-insensitive")

	result = reports.Evaluate(incidents, reports.Query{Term: "helicopter"})
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Incidents)
}

func TestEvaluate_ConstraintsAndWildcards(t *testing.T) {
	incidents := []models.Incident{
		{IncidentCase: "A", Category: "Theft", Location: "Main Library"},
		{IncidentCase: "B", Category: "Theft", Location: "North Garage"},
		{IncidentCase: "C", Category: "Vandalism", Location: "Main Library"},
	}

	result := reports.Evaluate(incidents, reports.Query{Category: "Theft"})
	assert.Equal(t, 2, result.Total)

	result = reports.Evaluate(incidents, reports.Query{Category: "Theft", Location: "Main Library"})
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "A", result.Incidents[0].IncidentCase)

	// "all" and empty both mean unconstrained
	result = reports.Evaluate(incidents, reports.Query{Category: "all", Location: "All"})
	assert.Equal(t, 3, result.Total)
}

func TestEvaluate_TotalIndependentOfCap(t *testing.T) {
	var incidents []models.Incident
	for i := 0; i < 37; i++ {
		incidents = append(incidents, models.Incident{
			IncidentCase: fmt.Sprintf("case-%d", i),
			Summary:      "skateboard confiscated",
		})
	}
	incidents = append(incidents, models.Incident{IncidentCase: "other", Summary: "unrelated"})

	result := reports.Evaluate(incidents, reports.Query{Term: "skateboard", Limit: 10})
	assert.Equal(t, 37, result.Total)
	assert.Len(t, result.Incidents, 10)

	// the capped window preserves collection order
	assert.Equal(t, "case-0", result.Incidents[0].IncidentCase)
	assert.Equal(t, "case-9", result.Incidents[9].IncidentCase)
}

func TestEvaluate_DefaultLimit(t *testing.T) {
	var incidents []models.Incident
	for i := 0; i < 15; i++ {
		incidents = append(incidents, models.Incident{Summary: "match me"})
	}

	result := reports.Evaluate(incidents, reports.Query{Term: "match"})
	assert.Equal(t, 15, result.Total)
	assert.Len(t, result.Incidents, reports.DefaultSearchLimit)
}
