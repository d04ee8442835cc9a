package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/models"
)

// ErrNotLoaded is returned by Incidents while no feed load has succeeded yet
var ErrNotLoaded = errors.New("incident feed not loaded")

// Provider owns the canonical collection for the lifetime of the process.
// The collection is replaced wholesale on each successful load and is
// read-only to every consumer; derived views copy, never mutate.
type Provider struct {
	feedURL string
	client  *http.Client

	mu         sync.RWMutex
	incidents  []models.Incident
	loaded     bool
	loadErr    error
	generation uint64
}

// NewProvider creates a provider for the given feed URL
func NewProvider(feedURL string) *Provider {
	return &Provider{
		feedURL: feedURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewStaticProvider creates a provider preloaded with an already-normalized
// collection. Used by tests and the sitemap CLI when reading a local file.
func NewStaticProvider(incidents []models.Incident) *Provider {
	return &Provider{
		incidents: incidents,
		loaded:    true,
	}
}

// Load fetches the feed, normalizes it, and swaps the canonical collection.
// The collection is only exposed after the whole fetch and normalization
// complete; a failed load leaves the previous collection untouched and
// records the error. A load that was superseded by a newer one discards its
// result instead of clobbering fresher data.
func (p *Provider) Load(ctx context.Context) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	incidents, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		zap.S().Debugw("discarding superseded feed load", "generation", gen)
		return nil
	}
	if err != nil {
		p.loadErr = err
		if !p.loaded {
			p.incidents = nil
		}
		return err
	}
	p.incidents = incidents
	p.loaded = true
	p.loadErr = nil
	return nil
}

func (p *Provider) fetch(ctx context.Context) ([]models.Incident, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	var feed models.Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return Normalize(feed), nil
}

// Incidents returns the canonical collection. While no load has succeeded it
// returns an empty collection and the recorded load error so callers can
// degrade to a loading-failed state instead of crashing.
func (p *Provider) Incidents() ([]models.Incident, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.loaded {
		if p.loadErr != nil {
			return nil, p.loadErr
		}
		return nil, ErrNotLoaded
	}
	return p.incidents, nil
}

// Cases returns the set of case numbers currently in the collection. The
// scheduler diffs this across reloads to find newly published incidents.
func (p *Provider) Cases() map[string]bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cases := make(map[string]bool, len(p.incidents))
	for _, inc := range p.incidents {
		cases[inc.IncidentCase] = true
	}
	return cases
}
