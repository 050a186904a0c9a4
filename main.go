package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"ioforge/internal/audit"
	"ioforge/internal/auth"
	planapp "ioforge/internal/ioplan/application"
	planpostgres "ioforge/internal/ioplan/infrastructure/postgres"
	planinterfaces "ioforge/internal/ioplan/interfaces"
	planhttp "ioforge/internal/ioplan/interfaces/http"
	"ioforge/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	planCfg, err := planapp.LoadConfig()
	if err != nil {
		logger.Fatalf("plan config error: %v", err)
	}

	pointRepo := planpostgres.NewPointRepository(db)
	cardRepo := planpostgres.NewCardRepository(db)
	projectRepo := planpostgres.NewProjectRepository(db)

	planService, err := planapp.NewPlanService(pointRepo, cardRepo, projectRepo, cfg.TenantID,
		planapp.WithConfig(planCfg),
		planapp.WithAuditor(auditRepo),
	)
	if err != nil {
		logger.Fatalf("plan service error: %v", err)
	}

	planHandler, err := planhttp.NewPlanHandler(planService)
	if err != nil {
		logger.Fatalf("plan handler error: %v", err)
	}
	exportHandler, err := planinterfaces.NewExportHandler(planService, auditRepo)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/io/points", planHandler)
	mux.Handle("/api/v1/io/cards", planHandler)
	mux.Handle("/api/v1/io/assign", planHandler)
	mux.Handle("/api/v1/io/unassign", planHandler)
	mux.Handle("/api/v1/io/conflicts", planHandler)
	mux.Handle("/api/v1/io/utilization", planHandler)
	mux.Handle("/api/v1/io/suggestions", planHandler)
	mux.Handle("/api/v1/io/validation", planHandler)
	mux.Handle("/api/v1/io/address-check", planHandler)
	mux.Handle("/api/v1/io/next-tag", planHandler)
	mux.Handle("/api/v1/io/exports/io-list.xlsx", exportHandler)
	mux.Handle("/api/v1/io/exports/utilization.pdf", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	TenantID    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		TenantID:    getenvDefault("TENANT_ID", "tenant-demo"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
