package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ioforge/internal/auth"
	planapp "ioforge/internal/ioplan/application"
	ioplan "ioforge/internal/ioplan/domain"
)

// PlanHandler provides the I/O planning HTTP endpoints.
type PlanHandler struct {
	service *planapp.PlanService
}

// NewPlanHandler constructs a handler.
func NewPlanHandler(service *planapp.PlanService) (*PlanHandler, error) {
	if service == nil {
		return nil, errors.New("ioplan handler: nil service")
	}
	return &PlanHandler{service: service}, nil
}

// ServeHTTP handles /api/v1/io and subroutes.
func (h *PlanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/io/points":
		switch r.Method {
		case http.MethodGet:
			h.handleListPoints(w, r)
		case http.MethodPost:
			h.handleCreatePoint(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "/api/v1/io/cards":
		switch r.Method {
		case http.MethodGet:
			h.handleListCards(w, r)
		case http.MethodPost:
			h.handleSaveCard(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "/api/v1/io/assign":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleAssign(w, r)
	case "/api/v1/io/unassign":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleUnassign(w, r)
	case "/api/v1/io/conflicts":
		h.requireGet(w, r, h.handleConflicts)
	case "/api/v1/io/utilization":
		h.requireGet(w, r, h.handleUtilization)
	case "/api/v1/io/suggestions":
		h.requireGet(w, r, h.handleSuggestions)
	case "/api/v1/io/validation":
		h.requireGet(w, r, h.handleValidation)
	case "/api/v1/io/address-check":
		h.requireGet(w, r, h.handleAddressCheck)
	case "/api/v1/io/next-tag":
		h.requireGet(w, r, h.handleNextTag)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *PlanHandler) requireGet(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	next(w, r)
}

func (h *PlanHandler) handleListPoints(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	points, err := h.service.ListPoints(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if points == nil {
		points = []ioplan.IOPoint{}
	}
	writeJSON(w, points)
}

func (h *PlanHandler) handleCreatePoint(w http.ResponseWriter, r *http.Request) {
	var point ioplan.IOPoint
	if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreatePoint(r.Context(), &point)
	if err != nil {
		if errors.Is(err, ioplan.ErrDuplicateTag) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *PlanHandler) handleListCards(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	cards, err := h.service.ListCards(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if cards == nil {
		cards = []ioplan.Card{}
	}
	writeJSON(w, cards)
}

func (h *PlanHandler) handleSaveCard(w http.ResponseWriter, r *http.Request) {
	var card ioplan.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	saved, err := h.service.SaveCard(r.Context(), &card)
	if err != nil {
		if errors.Is(err, ioplan.ErrDuplicateCard) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(saved)
}

type assignRequest struct {
	ProjectID string `json:"project_id"`
	PointTag  string `json:"point_tag"`
	PLCName   string `json:"plc_name,omitempty"`
	Rack      *int   `json:"rack,omitempty"`
	Slot      *int   `json:"slot,omitempty"`
}

func (req assignRequest) targetRef() (ioplan.CardRef, bool) {
	if req.PLCName == "" || req.Rack == nil || req.Slot == nil {
		return ioplan.CardRef{}, false
	}
	return ioplan.CardRef{PLCName: req.PLCName, Rack: *req.Rack, Slot: *req.Slot}, true
}

// handleAssign runs the engine. Engine rejections come back with 200 and
// assigned=false; only malformed requests get a 4xx.
func (h *PlanHandler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.ProjectID == "" || req.PointTag == "" {
		http.Error(w, "project_id and point_tag are required", http.StatusBadRequest)
		return
	}

	var (
		result ioplan.AssignmentResult
		err    error
	)
	if ref, ok := req.targetRef(); ok {
		result, err = h.service.AssignPoint(r.Context(), req.ProjectID, req.PointTag, ref)
	} else {
		result, err = h.service.AutoAssignPoint(r.Context(), req.ProjectID, req.PointTag)
	}
	if err != nil {
		if errors.Is(err, ioplan.ErrPointNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServiceError(w, err)
		return
	}
	writeJSON(w, result)
}

func (h *PlanHandler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.ProjectID == "" || req.PointTag == "" {
		http.Error(w, "project_id and point_tag are required", http.StatusBadRequest)
		return
	}
	point, err := h.service.ClearAssignment(r.Context(), req.ProjectID, req.PointTag)
	if err != nil {
		if errors.Is(err, ioplan.ErrPointNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServiceError(w, err)
		return
	}
	writeJSON(w, point)
}

func (h *PlanHandler) handleConflicts(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	report, err := h.service.DetectConflicts(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if report.Conflicts == nil {
		report.Conflicts = []ioplan.Conflict{}
	}
	writeJSON(w, report)
}

func (h *PlanHandler) handleUtilization(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	rows, err := h.service.CardUtilization(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []ioplan.UtilizationRow{}
	}
	writeJSON(w, rows)
}

func (h *PlanHandler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	suggestions, err := h.service.SuggestCards(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []ioplan.CardSuggestion{}
	}
	writeJSON(w, suggestions)
}

func (h *PlanHandler) handleValidation(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	findings, err := h.service.ValidateProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if findings == nil {
		findings = []ioplan.Finding{}
	}
	writeJSON(w, findings)
}

func (h *PlanHandler) handleAddressCheck(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	projectID := query.Get("project_id")
	plcName := query.Get("plc_name")
	if projectID == "" || plcName == "" {
		http.Error(w, "project_id and plc_name are required", http.StatusBadRequest)
		return
	}
	rack, err := parseIntQuery(query.Get("rack"), "rack")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slot, err := parseIntQuery(query.Get("slot"), "slot")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	channel, err := parseIntQuery(query.Get("channel"), "channel")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref := ioplan.CardRef{PLCName: plcName, Rack: rack, Slot: slot}

	occupants, err := h.service.CheckAddressConflict(r.Context(), projectID, ref, channel, query.Get("exclude_tag"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if occupants == nil {
		occupants = []string{}
	}
	writeJSON(w, map[string]any{
		"occupied":  len(occupants) > 0,
		"occupants": occupants,
	})
}

func (h *PlanHandler) handleNextTag(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	tag, err := h.service.NextPointTag(r.Context(), projectID, r.URL.Query().Get("prefix"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{"tag": tag})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ioplan.ErrProjectNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrTenantMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func parseIntQuery(value, key string) (int, error) {
	if value == "" {
		return 0, errors.New(key + " is required")
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return parsed, nil
}
