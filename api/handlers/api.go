package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/alerts"
	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/api/scheduler"
	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/databases"
	"github.com/alexgaoth/campus-crime-api/geocode"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/notifications"
	"github.com/alexgaoth/campus-crime-api/reports"
)

// App stores the router, db connection, and shared services so they can be
// reused across handlers
type App struct {
	Router    *mux.Router
	Config    config.Config
	Provider  *reports.Provider
	Metrics   *api.Metrics
	Clock     clockwork.Clock
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	smsService := notifications.NewSmsService(
		databases.NewSmsSubscriberDatabase(a.dbHelper),
		newSMSSender(),
		a.Clock,
	)
	pushService := notifications.NewPushService(
		databases.NewPushSubscriberDatabase(a.dbHelper),
		a.Clock,
	)

	i := Incident{Provider: a.Provider, Clock: a.Clock, Geocoder: newGeocoder()}
	sub := Submission{
		RDB:   databases.NewUserReportDatabase(a.dbHelper),
		CTR:   databases.NewCounterDatabase(a.dbHelper),
		Clock: a.Clock,
	}
	sms := Sms{Service: smsService, Metrics: a.Metrics}
	push := Push{Service: pushService}
	up := Upvote{DB: databases.NewUpvoteDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	if a.Metrics != nil {
		apiCreate.Use(a.Metrics.Middleware)
	}

	apiCreate.Handle("/incidents", http.HandlerFunc(i.IncidentsHandler)).Methods("GET")
	apiCreate.Handle("/incidents/top-recent", http.HandlerFunc(i.TopRecentHandler)).Methods("GET")
	apiCreate.Handle("/incidents/search", http.HandlerFunc(i.SearchHandler)).Methods("GET")
	apiCreate.Handle("/incidents/categories", http.HandlerFunc(i.CategoriesHandler)).Methods("GET")
	apiCreate.Handle("/incidents/locations", http.HandlerFunc(i.LocationsHandler)).Methods("GET")
	apiCreate.Handle("/incidents/hourly", http.HandlerFunc(i.HourlyHandler)).Methods("GET")
	apiCreate.Handle("/incidents/directory", http.HandlerFunc(i.DirectoryHandler)).Methods("GET")
	apiCreate.Handle("/incidents/location-ranking", http.HandlerFunc(i.LocationRankingHandler)).Methods("GET")
	apiCreate.Handle("/incidents/{incident_case}", http.HandlerFunc(i.IncidentByCaseHandler)).Methods("GET")

	apiCreate.Handle("/reports", http.HandlerFunc(sub.CreateUserReportHandler)).Methods("POST")

	apiCreate.Handle("/notifications/sms/subscribe", http.HandlerFunc(sms.SubscribeHandler)).Methods("POST")
	apiCreate.Handle("/notifications/sms/verify", http.HandlerFunc(sms.VerifyHandler)).Methods("POST")
	apiCreate.Handle("/notifications/sms/resend", http.HandlerFunc(sms.ResendHandler)).Methods("POST")
	apiCreate.Handle("/notifications/sms/unsubscribe", http.HandlerFunc(sms.UnsubscribeHandler)).Methods("POST")
	apiCreate.Handle("/notifications/sms/status", http.HandlerFunc(sms.StatusHandler)).Methods("GET")

	apiCreate.Handle("/notifications/push/subscribe", http.HandlerFunc(push.SubscribeHandler)).Methods("POST")
	apiCreate.Handle("/notifications/push/sync", http.HandlerFunc(push.SyncHandler)).Methods("POST")
	apiCreate.Handle("/notifications/push/{browser_id}/status", http.HandlerFunc(push.StatusHandler)).Methods("GET")
	apiCreate.Handle("/notifications/push/{browser_id}", http.HandlerFunc(push.UnsubscribeHandler)).Methods("DELETE")

	apiCreate.Handle("/upvotes/{incident_case}", http.HandlerFunc(up.GetUpvotesHandler)).Methods("GET")
	apiCreate.Handle("/upvotes/{incident_case}", http.HandlerFunc(up.AddUpvoteHandler)).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database, perform the
// initial feed load, and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("campus-crime-api has connected to the database")

	if a.Clock == nil {
		a.Clock = clockwork.NewRealClock()
	}
	a.Metrics = api.NewMetrics()
	a.Provider = reports.NewProvider(a.Config.FeedURL)

	// a failed initial load is tolerated; handlers serve the loading-failed
	// state and the scheduler retries
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := a.Provider.Load(ctx); err != nil {
		a.Metrics.FeedLoads.WithLabelValues("error").Inc()
		zap.S().Errorw("initial feed load failed, continuing without collection", "error", err)
	} else {
		a.Metrics.FeedLoads.WithLabelValues("success").Inc()
	}

	notifier := alerts.NewNotifier(
		databases.NewSmsSubscriberDatabase(a.dbHelper),
		newSMSSender(),
		a.Config.BaseURL,
	)
	a.Scheduler = scheduler.NewScheduler(a.Provider, notifier, a.Metrics, a.Config.RefreshCron)
	a.Scheduler.Start()

	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// newSMSSender builds the Twilio sender from the environment. Without
// credentials it returns nil and every SMS feature degrades to logged no-ops.
func newSMSSender() alerts.SMSSender {
	accountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSID == "" || authToken == "" || fromNumber == "" {
		zap.S().Warn("twilio credentials not set, sms sending disabled")
		return nil
	}
	return alerts.NewTwilioSender(accountSID, authToken, fromNumber)
}

// newGeocoder builds the cached geocoding client from the environment. The
// campus map filter is skipped entirely when no token is set.
func newGeocoder() geocode.Geocoder {
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		return nil
	}
	return geocode.NewCachedGeocoder(geocode.NewClient(token, os.Getenv("CAMPUS_HINT"), 10*time.Second))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
