package worker

// close_report_worker.go
// Processes end-of-shift report jobs from QueueCloseReport and mails the
// reconciliation figures to the configured supervisor address.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// CloseReportPayload is the job envelope sent to QueueCloseReport.
// Amounts travel as strings to keep the wire format decimal-exact.
type CloseReportPayload struct {
	SessionID    string    `json:"session_id"`
	StoreID      string    `json:"store_id"`
	OpenedAt     time.Time `json:"opened_at"`
	ClosedAt     time.Time `json:"closed_at"`
	InitialCash  string    `json:"initial_cash"`
	ExpectedCash string    `json:"expected_cash"`
	ActualCash   string    `json:"actual_cash"`
	Difference   string    `json:"difference"`
	Verdict      string    `json:"verdict"`
}

// CloseReportWorker mails the close-out summary of a reconciled session.
type CloseReportWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewCloseReportWorker(mailer *infra.Mailer, to string) *CloseReportWorker {
	return &CloseReportWorker{mailer: mailer, to: to}
}

// Process formats and sends the report email. Failures are logged, never
// retried here: the reconciliation is already persisted and a duplicate
// send is worse than a missing one.
func (w *CloseReportWorker) Process(_ context.Context, raw json.RawMessage) {
	var p CloseReportPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("close_report_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Debug().Msg("close_report_worker: no report email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Drawer close %s — %s", p.ClosedAt.Format("2006-01-02"), p.Verdict)
	body := fmt.Sprintf(
		"Session %s (store %s)\nShift: %s — %s\n\nInitial float: %s\nExpected cash: %s\nCounted cash:  %s\nDifference:    %s (%s)\n",
		p.SessionID, p.StoreID,
		p.OpenedAt.Format(time.RFC3339), p.ClosedAt.Format(time.RFC3339),
		p.InitialCash, p.ExpectedCash, p.ActualCash, p.Difference, p.Verdict,
	)

	if err := w.mailer.Send(w.to, subject, body); err != nil {
		log.Error().Err(err).Str("session_id", p.SessionID).Msg("close_report_worker: failed to send report")
		return
	}
	log.Info().Str("session_id", p.SessionID).Msg("close_report_worker: report sent")
}
