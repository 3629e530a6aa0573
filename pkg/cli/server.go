package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/auth"
	"github.com/mchmarny/hiscore/pkg/score"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	corsMaxAgeSeconds         = 300
)

var (
	portFlag = &urfave.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen (default: port from config)",
	}

	noAuthFlag = &urfave.BoolFlag{
		Name:  "no-auth",
		Usage: "Do not require the API token even when auth is enabled in config",
	}

	serverCmd = &urfave.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP API",
		Action:  cmdStartServer,
		Flags: []urfave.Flag{
			portFlag,
			modelFlag,
			noAuthFlag,
		},
	}
)

// apiServer holds what the HTTP handlers share.
type apiServer struct {
	db       *sql.DB
	model    *score.WeightModel
	modelRef string
}

func cmdStartServer(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	port := cfg.Config.Port
	if cmd.IsSet(portFlag.Name) {
		port = cmd.Int(portFlag.Name)
	}
	address := fmt.Sprintf("127.0.0.1:%d", port)

	db, err := cfg.DB(ctx)
	if err != nil {
		return err
	}

	api := &apiServer{db: db, modelRef: modelRef(cmd)}
	if api.modelRef != "" {
		if api.model, err = readModel(ctx, api.modelRef, cfg.Config.ModelToken); err != nil {
			return err
		}
	} else {
		slog.Warn("no default model, requests without one score nothing")
	}

	var token string
	if cfg.Config.Auth && !cmd.Bool(noAuthFlag.Name) {
		if token, err = auth.NewStore(cfg.HomeDir).Get(); err != nil {
			return fmt.Errorf("getting API token: %w", err)
		}
	}

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(api, token),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address), "auth", token != "")

	select {
	case <-done:
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

// makeRouter wires the API routes. A non-empty token is required as a
// bearer token on every /api route.
func makeRouter(api *apiServer, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(ar chi.Router) {
		if token != "" {
			ar.Use(auth.RequireToken(token))
		}

		ar.Get("/taxonomy", taxonomyAPIHandler)
		ar.Post("/convert", convertAPIHandler)
		ar.Post("/score", api.scoreAPIHandler)
		ar.Post("/report", api.reportAPIHandler)

		ar.Route("/assessments", func(sr chi.Router) {
			sr.Get("/", api.listAssessmentsAPIHandler)
			sr.Get("/{id}", api.getAssessmentAPIHandler)
			sr.Get("/{id}/report.csv", api.assessmentReportAPIHandler)
			sr.Delete("/{id}", api.deleteAssessmentAPIHandler)
		})
	})

	return r
}
