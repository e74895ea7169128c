package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/LoanPilot/internal/config"
	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
)

// submitFixtures posts the built-in sample applicants to a running
// orchestrator and prints each verdict. At most three submissions run
// concurrently so log output stays readable.
func submitFixtures(cfg *config.Config, log *slog.Logger) error {
	base := "http://localhost:" + cfg.Server.Port
	client := &http.Client{Timeout: 10 * time.Minute}

	apps := loan.Fixtures()
	results := make([]review.ProcessedLoanRecord, len(apps))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(3)
	var mu sync.Mutex

	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			body, err := json.Marshal(app)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", app.ApplicantID, err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/applications", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("request %s: %w", app.ApplicantID, err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("submit %s: %w", app.ApplicantID, err)
			}
			defer func() { _ = resp.Body.Close() }()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read %s: %w", app.ApplicantID, err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("submit %s: HTTP %d: %s", app.ApplicantID, resp.StatusCode, data)
			}

			var rec review.ProcessedLoanRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decode %s: %w", app.ApplicantID, err)
			}

			mu.Lock()
			results[i] = rec
			mu.Unlock()

			log.Info("applicant processed",
				"applicant_id", rec.ApplicantID,
				"decision", string(rec.Decision), "score", rec.Score)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%-14s %-18s %-16s %-6s %s\n", "APPLICANT", "NAME", "DECISION", "SCORE", "REASON")
	for _, rec := range results {
		reason := rec.Reason
		if len(reason) > 80 {
			reason = reason[:77] + "..."
		}
		fmt.Printf("%-14s %-18s %-16s %-6d %s\n",
			rec.ApplicantID, rec.FullName, rec.Decision, rec.Score, reason)
	}
	return nil
}
