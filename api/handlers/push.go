package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/notifications"
)

// Push handles browser push subscription bookkeeping
type Push struct {
	Service *notifications.PushService
}

type pushRequest struct {
	BrowserID  string `json:"browserId"`
	Permission string `json:"permission"`
}

// SubscribeHandler confirms the subscription for a browser with granted
// permission. A missing browser ID gets a fresh one so first-time clients
// can store it locally.
func (p Push) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.BrowserID == "" {
		req.BrowserID = uuid.New().String()
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.Service.Subscribe(ctx, req.BrowserID, req.Permission); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, notifications.ErrPermissionNotGranted) {
			status = http.StatusConflict
		}
		config.ErrorStatus("failed to subscribe to push notifications", status, w, err)
		return
	}
	writeJSON(w, map[string]string{
		"browserId": req.BrowserID,
		"state":     notifications.PushStateSubscribed,
	})
}

// SyncHandler reconciles stored state with the live browser permission on
// client initialization, force-unsubscribing on revocation
func (p Push) SyncHandler(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	state, err := p.Service.Sync(ctx, req.BrowserID, req.Permission)
	if err != nil {
		config.ErrorStatus("failed to sync push subscription", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, map[string]string{"state": state})
}

// StatusHandler reports the stored channel state for a browser
func (p Push) StatusHandler(w http.ResponseWriter, r *http.Request) {
	browserID := mux.Vars(r)["browser_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	state, err := p.Service.Status(ctx, browserID)
	if err != nil {
		config.ErrorStatus("failed to get push status", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, map[string]string{"state": state})
}

// UnsubscribeHandler clears the local confirmation flag
func (p Push) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	browserID := mux.Vars(r)["browser_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.Service.Unsubscribe(ctx, browserID); err != nil {
		config.ErrorStatus("failed to unsubscribe from push notifications", http.StatusInternalServerError, w, err)
		return
	}
	writeSuccess(w)
}
