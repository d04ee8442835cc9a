package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexgaoth/campus-crime-api/models"
)

func TestIncident_IsUserSubmitted(t *testing.T) {
	assert.True(t, models.Incident{IncidentCase: "USER-2025-014"}.IsUserSubmitted())
	assert.False(t, models.Incident{IncidentCase: "2510070084"}.IsUserSubmitted())
	assert.False(t, models.Incident{IncidentCase: ""}.IsUserSubmitted())

	// prefix match is exact, not a substring scan
	assert.False(t, models.Incident{IncidentCase: "2025-USER-014"}.IsUserSubmitted())
}

func TestIncident_DispositionSlug(t *testing.T) {
	assert.Equal(t, "closed", models.Incident{Disposition: "Closed"}.DispositionSlug())
	assert.Equal(t, "under-investigation", models.Incident{Disposition: "Under Investigation"}.DispositionSlug())
	assert.Equal(t, "", models.Incident{}.DispositionSlug())
}
