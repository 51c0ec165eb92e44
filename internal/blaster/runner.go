// Package blaster drives the incident creation loop against a Remedy
// session.
package blaster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gmckeown/incident-blaster/internal/config"
	"github.com/gmckeown/incident-blaster/internal/generate"
	"github.com/gmckeown/incident-blaster/internal/models"
	"github.com/gmckeown/incident-blaster/internal/remedy"
)

// API defines the Remedy operations the runner needs.
type API interface {
	CreateEntry(ctx context.Context, form string, entry any, returnFields []string) (string, *models.EntryResponse, error)
	QueryEntries(ctx context.Context, form, qualification string, returnFields []string) (*models.QueryResponse, error)
	ModifyEntry(ctx context.Context, form string, values map[string]string, entryID string) error
}

// Summary reports what a run actually did.
type Summary struct {
	Attempted int
	Created   int
	Errors    int
	Elapsed   time.Duration
}

// Runner executes one incident generation run: generate, submit, and where
// the sampled status requires it, a follow-up status modification. Incidents
// are processed strictly one at a time.
type Runner struct {
	client     API
	gen        *generate.Generator
	createForm string
	modifyForm string
	logger     *slog.Logger
}

// NewRunner creates a runner submitting to the forms named in the REST
// configuration.
func NewRunner(client API, gen *generate.Generator, rest *config.RestConfig, logger *slog.Logger) *Runner {
	return &Runner{
		client:     client,
		gen:        gen,
		createForm: rest.CreateForm,
		modifyForm: rest.ModifyForm,
		logger:     logger,
	}
}

// Run creates rt.IncidentsToCreate incidents sequentially. Each attempt
// consumes one sequence number from rt.NextIncidentNumber whether or not
// the submission succeeds, so counters across a run are contiguous. A
// failed submission is logged and counted; the loop moves on to the next
// incident. Only generation failures are fatal: they mean the configured
// pools are unusable.
func (r *Runner) Run(ctx context.Context, rt *config.RuntimeValues) (Summary, error) {
	start := time.Now()
	var s Summary

	for i := 0; i < rt.IncidentsToCreate; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Info("run interrupted", "remaining", rt.IncidentsToCreate-i)
			break
		}

		counter := rt.NextIncidentNumber
		rt.NextIncidentNumber++

		req, err := r.gen.Generate(counter)
		if err != nil {
			s.Elapsed = time.Since(start)
			return s, fmt.Errorf("generate incident %d: %w", counter, err)
		}

		r.logger.Info("creating incident", "counter", counter, "company", req.Values.Company)
		s.Attempted++
		incidentsAttempted.Inc()

		if err := r.create(ctx, req); err != nil {
			class := remedy.ErrorClass(err)
			s.Errors++
			incidentErrors.WithLabelValues(class).Inc()
			r.logger.Error("failed to create incident",
				"counter", counter,
				"class", class,
				"error", err,
			)
			continue
		}

		s.Created++
		incidentsCreated.Inc()
	}

	s.Elapsed = time.Since(start)
	return s, nil
}

// create submits one incident and applies the follow-up status change when
// the sampled status cannot be set at creation time.
func (r *Runner) create(ctx context.Context, req models.IncidentRequest) error {
	returnFields := []string{models.FieldIncidentNumber, models.FieldRequestID}

	_, resp, err := r.client.CreateEntry(ctx, r.createForm, req, returnFields)
	if err != nil {
		return err
	}

	number := resp.Values[models.FieldIncidentNumber]
	if number == "" {
		return fmt.Errorf("create entry returned no incident number")
	}

	r.logger.Info("incident created",
		"incident_number", number,
		"request_id", resp.Values[models.FieldRequestID],
		"status", "Assigned",
	)

	if req.Values.NeedsStatusUpdate() {
		return r.updateStatus(ctx, number, req.Values)
	}
	return nil
}

// updateStatus locates the created incident on the modify form and moves it
// to its sampled status, including the status reason for Pending incidents.
func (r *Runner) updateStatus(ctx context.Context, number string, values models.IncidentValues) error {
	qualification := fmt.Sprintf("('Incident Number'=%q)", number)

	resp, err := r.client.QueryEntries(ctx, r.modifyForm, qualification, []string{models.FieldRequestID})
	if err != nil {
		return err
	}
	if len(resp.Entries) == 0 {
		return fmt.Errorf("incident %s not found on form %s", number, r.modifyForm)
	}
	requestID := resp.Entries[0].Values[models.FieldRequestID]

	update := map[string]string{"Status": values.Status}
	if values.Status == models.StatusPending {
		update["Status_Reason"] = values.StatusReason
	}

	if err := r.client.ModifyEntry(ctx, r.modifyForm, update, requestID); err != nil {
		return err
	}

	r.logger.Info("incident status updated",
		"incident_number", number,
		"status", values.Status,
	)
	return nil
}
