package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	lphttp "github.com/Strob0t/LoanPilot/internal/adapter/http"
	"github.com/Strob0t/LoanPilot/internal/adapter/llm"
	lpotel "github.com/Strob0t/LoanPilot/internal/adapter/otel"
	"github.com/Strob0t/LoanPilot/internal/config"
	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/logger"
	"github.com/Strob0t/LoanPilot/internal/port/a2a"
	"github.com/Strob0t/LoanPilot/internal/resilience"
	"github.com/Strob0t/LoanPilot/internal/service"
	"github.com/Strob0t/LoanPilot/internal/store"
)

const version = "1.0.0"

func main() {
	role := flag.String("role", "all", "which service to run: intake|risk|compliance|decision|escalation|orchestrator|all")
	configPath := flag.String("config", config.DefaultConfigFile, "path to YAML config")
	submit := flag.Bool("submit", false, "submit the built-in sample applicants to the orchestrator and exit")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	if *submit {
		if err := submitFixtures(cfg, log); err != nil {
			log.Error("submit failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *role, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, role string, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := lpotel.Setup(ctx, cfg.Logging.Service, cfg.Otel.Endpoint, cfg.Otel.Enabled)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	var metrics *lpotel.Metrics
	if cfg.Otel.Enabled {
		if metrics, err = lpotel.NewMetrics(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	servers, err := buildServers(cfg, role, metrics, log)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		return fmt.Errorf("unknown role %q", role)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("starting server", "role", srv.role, "addr", srv.http.Addr)
			if err := srv.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("%s server: %w", srv.role, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.http.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

type roleServer struct {
	role string
	http *http.Server
}

// buildServers assembles the HTTP servers for the requested role. The
// "all" role runs every service in one process, which is the local
// development mode.
func buildServers(cfg *config.Config, role string, metrics *lpotel.Metrics, log *slog.Logger) ([]roleServer, error) {
	bands := risk.Bands{
		AutoApprove: cfg.Thresholds.AutoApprove,
		AutoDecline: cfg.Thresholds.AutoDecline,
	}
	all := role == "all"
	var servers []roleServer

	if all || role == "intake" {
		svc := service.NewIntakeService(log.With("role", "intake"))
		servers = append(servers, stageServer("intake", cfg.Stages.Intake, intakeCard(cfg), svc, log))
	}

	if all || role == "risk" {
		oracle := llm.NewClient(cfg.Oracle.URL, cfg.Oracle.APIKey, cfg.Oracle.Model, cfg.Oracle.Timeout)
		oracle.SetBreaker(resilience.NewBreaker("oracle", cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown, log))
		svc := service.NewRiskService(oracle, bands, log.With("role", "risk"))
		if metrics != nil {
			svc.SetMetrics(metrics)
		}
		servers = append(servers, stageServer("risk", cfg.Stages.Risk, riskCard(cfg), svc, log))
	}

	if all || role == "compliance" {
		svc := service.NewComplianceService(log.With("role", "compliance"))
		servers = append(servers, stageServer("compliance", cfg.Stages.Compliance, complianceCard(cfg), svc, log))
	}

	if all || role == "decision" {
		svc := service.NewDecisionService(bands, log.With("role", "decision"))
		servers = append(servers, stageServer("decision", cfg.Stages.Decision, decisionCard(cfg), svc, log))
	}

	if all || role == "escalation" {
		servers = append(servers, escalationServer(cfg, log))
	}

	if all || role == "orchestrator" {
		servers = append(servers, orchestratorServer(cfg, metrics, log))
	}

	return servers, nil
}

// stageServer wraps one stage service in an A2A agent endpoint.
func stageServer(name string, st config.Stage, card a2a.Card, exec a2a.Executor, log *slog.Logger) roleServer {
	h := a2a.NewHandler(card, exec, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(lpotel.HTTPMiddleware("loanpilot-" + name))
	h.Mount(r)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return roleServer{role: name, http: newHTTPServer(st.Port, r)}
}

// escalationServer hosts both the escalation A2A agent and the review
// REST API over the shared in-memory stores.
func escalationServer(cfg *config.Config, log *slog.Logger) roleServer {
	escStore := store.NewEscalationStore()
	histStore := store.NewHistoryStore()

	escSvc := service.NewEscalationService(escStore, log.With("role", "escalation"))
	reviewSvc := service.NewReviewService(escStore, histStore, log.With("role", "review"))

	h := a2a.NewHandler(escalationCard(cfg), escSvc, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(lpotel.HTTPMiddleware("loanpilot-escalation"))
	h.Mount(r)
	lphttp.MountRoutes(r, lphttp.NewHandlers(reviewSvc))

	return roleServer{role: "escalation", http: newHTTPServer(cfg.Stages.Escalation.Port, r)}
}

// orchestratorServer hosts the application submission API backed by the
// pipeline.
func orchestratorServer(cfg *config.Config, metrics *lpotel.Metrics, log *slog.Logger) roleServer {
	timeout := cfg.Pipeline.StageTimeout
	pipeline := service.NewPipelineService(service.StageClients{
		Intake:     a2a.NewClient(cfg.Stages.Intake.URL, timeout),
		Risk:       a2a.NewClient(cfg.Stages.Risk.URL, timeout),
		Compliance: a2a.NewClient(cfg.Stages.Compliance.URL, timeout),
		Decision:   a2a.NewClient(cfg.Stages.Decision.URL, timeout),
		Escalation: a2a.NewClient(cfg.Stages.Escalation.URL, timeout),
	}, cfg.Pipeline.ReviewURL, metrics, log.With("role", "orchestrator"))

	go func() {
		discoverCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		pipeline.Discover(discoverCtx)
	}()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(lpotel.HTTPMiddleware("loanpilot-orchestrator"))
	lphttp.MountOrchestratorRoutes(r, lphttp.NewOrchestratorHandlers(pipeline))

	return roleServer{role: "orchestrator", http: newHTTPServer(cfg.Server.Port, r)}
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
