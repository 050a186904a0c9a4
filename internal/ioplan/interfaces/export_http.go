package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ioforge/internal/audit"
	"ioforge/internal/auth"
	planapp "ioforge/internal/ioplan/application"
	ioplan "ioforge/internal/ioplan/domain"
	"ioforge/internal/observability/metrics"
)

// ExportHandler serves downloadable project documents.
type ExportHandler struct {
	service     *planapp.PlanService
	auditLogger audit.Logger
}

// NewExportHandler constructs an export handler.
func NewExportHandler(service *planapp.PlanService, auditLogger audit.Logger) (*ExportHandler, error) {
	if service == nil {
		return nil, errors.New("export handler: nil service")
	}
	return &ExportHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/io/exports routes.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/io/exports/io-list.xlsx":
		h.handleIOListXLSX(w, r)
	case "/api/v1/io/exports/utilization.pdf":
		h.handleUtilizationPDF(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ExportHandler) handleIOListXLSX(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("xlsx", result, time.Since(start))
	}()

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		result = metrics.ResultError
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}
	points, err := h.service.ListPoints(r.Context(), projectID)
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}
	data, err := BuildIOListXLSX(project, points)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="io-list.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, projectID, "io.export", map[string]any{"format": "xlsx"})
}

func (h *ExportHandler) handleUtilizationPDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("pdf", result, time.Since(start))
	}()

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		result = metrics.ResultError
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}
	rows, err := h.service.CardUtilization(r.Context(), projectID)
	if err != nil {
		result = metrics.ResultError
		respondExportError(w, err)
		return
	}
	data, err := BuildUtilizationPDF(project, rows)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="utilization.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, projectID, "io.export", map[string]any{"format": "pdf"})
}

func (h *ExportHandler) logAudit(r *http.Request, projectID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     tenantID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "project",
		ResourceID:   projectID,
		ProjectID:    projectID,
		Metadata:     payload,
	})
}

func respondExportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ioplan.ErrProjectNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrTenantMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
