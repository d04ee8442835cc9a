package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/databases"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

// Submission handles user-authored incident report submissions
type Submission struct {
	RDB   databases.UserReportDatabase
	CTR   databases.CounterDatabase
	Clock clockwork.Clock
}

// CreateUserReportHandler validates a draft, assigns a case identifier, and
// stores the report as pending for manual review
func (s Submission) CreateUserReportHandler(w http.ResponseWriter, r *http.Request) {
	var draft models.UserReportDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validateDraft(draft); err != nil {
		config.ErrorStatus("invalid report submission", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := s.Clock.Now()
	incidentCase, err := s.CTR.NextIncidentCase(ctx, now.Year())
	if err != nil {
		// degraded uniqueness is acceptable only because the report stays
		// pending for manual review
		incidentCase = fmt.Sprintf("USER-%d-%03d", now.Year(), 1+rand.Intn(999))
		zap.S().Warnw("case counter unavailable, using random case number",
			"incidentCase", incidentCase,
			"error", err,
		)
	}

	report := models.UserReport{
		ID:           primitive.NewObjectID(),
		IncidentCase: incidentCase,
		Location:     draft.Location,
		Category:     draft.Category,
		DateOccurred: reports.NormalizeDate(draft.DateOccurred),
		TimeOccurred: draft.TimeOccurred,
		Summary:      draft.Summary,
		Contact:      draft.Contact,
		Status:       models.UserReportStatusPending,
		Processed:    false,
		CreatedAt:    primitive.NewDateTimeFromTime(now),
	}

	res := s.RDB.InsertOne(ctx, report)
	if res == nil || res.Decode() == nil {
		config.ErrorStatus("failed to store report", http.StatusInternalServerError, w, fmt.Errorf("insert returned no id"))
		return
	}

	if strings.Contains(draft.Contact, "@") {
		go sendSubmissionConfirmation(draft.Contact, incidentCase)
	}

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

func validateDraft(draft models.UserReportDraft) error {
	var missing []string
	if strings.TrimSpace(draft.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(draft.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(draft.DateOccurred) == "" {
		missing = append(missing, "dateOccurred")
	}
	if strings.TrimSpace(draft.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// sendSubmissionConfirmation emails the submitter their case number in a
// background goroutine; a failed send is logged, never surfaced
func sendSubmissionConfirmation(email, incidentCase string) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("panic in sendSubmissionConfirmation", "panic", r)
		}
	}()

	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		zap.S().Debug("SENDGRID_API_KEY not set, skipping confirmation email")
		return
	}

	from := mail.NewEmail("Campus Crime Alerts", "no-reply@campuscrimealerts.com")
	subject := "Your incident report was received"
	to := mail.NewEmail("", email)
	plainTextContent := fmt.Sprintf("Thank you for your report. Your case number is %s. It will be reviewed by campus security before publication.", incidentCase)
	htmlContent := fmt.Sprintf("<p>Thank you for your report.</p><p>Your case number is <strong>%s</strong>. It will be reviewed by campus security before publication.</p>", incidentCase)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send confirmation email", "error", err)
		return
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		zap.S().Infow("confirmation email sent", "statusCode", response.StatusCode)
	} else {
		zap.S().Warnw("confirmation email sent with non-2xx status", "statusCode", response.StatusCode)
	}
}
