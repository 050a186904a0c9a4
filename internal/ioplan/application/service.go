package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ioforge/internal/audit"
	"ioforge/internal/auth"
	ioplan "ioforge/internal/ioplan/domain"
	"ioforge/internal/observability/metrics"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// PlanService orchestrates channel assignment, conflict auditing and
// hardware advice over the persisted project snapshot.
type PlanService struct {
	points   ioplan.PointRepository
	cards    ioplan.CardRepository
	projects ioplan.ProjectRepository
	auditor  audit.Logger
	clock    Clock
	config   Config
	tenantID string
}

// ServiceOption customizes the plan service.
type ServiceOption func(*PlanService)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *PlanService) {
		s.clock = clock
	}
}

// WithAuditor assigns an audit logger.
func WithAuditor(auditor audit.Logger) ServiceOption {
	return func(s *PlanService) {
		s.auditor = auditor
	}
}

// WithConfig assigns engine config.
func WithConfig(cfg Config) ServiceOption {
	return func(s *PlanService) {
		s.config = cfg
	}
}

// NewPlanService constructs a plan service.
func NewPlanService(points ioplan.PointRepository, cards ioplan.CardRepository, projects ioplan.ProjectRepository, tenantID string, opts ...ServiceOption) (*PlanService, error) {
	if points == nil || cards == nil {
		return nil, errors.New("ioplan: nil repository")
	}
	if projects == nil {
		return nil, errors.New("ioplan: nil project repo")
	}
	if tenantID == "" {
		return nil, errors.New("ioplan: empty tenant id")
	}
	service := &PlanService{
		points:   points,
		cards:    cards,
		projects: projects,
		tenantID: tenantID,
		clock:    systemClock{},
		config: Config{
			CardSizes:       append([]int(nil), ioplan.StandardCardSizes...),
			DefaultChannels: 16,
			TagPrefix:       "IO",
		},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// AssignPoint places the named point onto the card at ref. An engine
// rejection is returned as result data, not as an error.
func (s *PlanService) AssignPoint(ctx context.Context, projectID, pointTag string, ref ioplan.CardRef) (ioplan.AssignmentResult, error) {
	return s.assign(ctx, projectID, pointTag, metrics.AssignModeManual, func(point ioplan.IOPoint, cards []ioplan.Card, points []ioplan.IOPoint) ioplan.AssignmentResult {
		return ioplan.AssignToCard(point, ref, cards, points)
	})
}

// AutoAssignPoint places the named point onto the least-utilized
// compatible card.
func (s *PlanService) AutoAssignPoint(ctx context.Context, projectID, pointTag string) (ioplan.AssignmentResult, error) {
	return s.assign(ctx, projectID, pointTag, metrics.AssignModeAuto, func(point ioplan.IOPoint, cards []ioplan.Card, points []ioplan.IOPoint) ioplan.AssignmentResult {
		return ioplan.AutoAssign(point, cards, points)
	})
}

func (s *PlanService) assign(ctx context.Context, projectID, pointTag, mode string, run func(ioplan.IOPoint, []ioplan.Card, []ioplan.IOPoint) ioplan.AssignmentResult) (ioplan.AssignmentResult, error) {
	if s == nil {
		return ioplan.AssignmentResult{}, errors.New("ioplan: nil service")
	}
	start := s.clock.Now()
	if err := s.ensureProject(ctx, projectID); err != nil {
		return ioplan.AssignmentResult{}, err
	}
	if pointTag == "" {
		return ioplan.AssignmentResult{}, errors.New("ioplan: point tag required")
	}

	point, err := s.points.GetByTag(ctx, projectID, pointTag)
	if err != nil {
		return ioplan.AssignmentResult{}, err
	}
	if point == nil {
		return ioplan.AssignmentResult{}, ioplan.ErrPointNotFound
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		return ioplan.AssignmentResult{}, err
	}
	cards, err := s.cards.ListByProject(ctx, projectID)
	if err != nil {
		return ioplan.AssignmentResult{}, err
	}

	result := run(*point, cards, points)
	outcome := metrics.AssignOutcomeRejected
	if result.Assigned {
		outcome = metrics.AssignOutcomeAssigned
		point.PLCName = result.Card.PLCName
		point.Rack = intPtr(result.Card.Rack)
		point.Slot = intPtr(result.Card.Slot)
		point.Channel = intPtr(result.Channel)
		point.UpdatedAt = s.clock.Now().UTC()
		if err := s.points.Save(ctx, point); err != nil {
			metrics.ObserveAssignment(mode, metrics.AssignOutcomeError, s.clock.Now().Sub(start))
			return ioplan.AssignmentResult{}, err
		}
		s.recordAudit(ctx, "io.point.assign", "io_point", point.ID, projectID, result)
	}
	metrics.ObserveAssignment(mode, outcome, s.clock.Now().Sub(start))
	return result, nil
}

// ClearAssignment removes the named point's placement.
func (s *PlanService) ClearAssignment(ctx context.Context, projectID, pointTag string) (*ioplan.IOPoint, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	point, err := s.points.GetByTag(ctx, projectID, pointTag)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, ioplan.ErrPointNotFound
	}
	point.PLCName = ""
	point.Rack = nil
	point.Slot = nil
	point.Channel = nil
	point.UpdatedAt = s.clock.Now().UTC()
	if err := s.points.Save(ctx, point); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "io.point.unassign", "io_point", point.ID, projectID, nil)
	return point, nil
}

// DetectConflicts audits the whole project snapshot.
func (s *PlanService) DetectConflicts(ctx context.Context, projectID string) (ioplan.ConflictReport, error) {
	if s == nil {
		return ioplan.ConflictReport{}, errors.New("ioplan: nil service")
	}
	start := s.clock.Now()
	if err := s.ensureProject(ctx, projectID); err != nil {
		return ioplan.ConflictReport{}, err
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		metrics.ObserveConflictScan(metrics.ResultError, s.clock.Now().Sub(start))
		return ioplan.ConflictReport{}, err
	}
	cards, err := s.cards.ListByProject(ctx, projectID)
	if err != nil {
		metrics.ObserveConflictScan(metrics.ResultError, s.clock.Now().Sub(start))
		return ioplan.ConflictReport{}, err
	}
	report := ioplan.DetectConflicts(points, cards)
	byKind := make(map[ioplan.ConflictKind]int)
	for _, conflict := range report.Conflicts {
		byKind[conflict.Kind]++
	}
	for kind, count := range byKind {
		metrics.IncConflictsFound(string(kind), count)
	}
	metrics.ObserveConflictScan(metrics.ResultSuccess, s.clock.Now().Sub(start))
	return report, nil
}

// CardUtilization reports channel usage per card.
func (s *PlanService) CardUtilization(ctx context.Context, projectID string) ([]ioplan.UtilizationRow, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ioplan.CardUtilization(cards, points), nil
}

// SuggestCards proposes hardware covering the project's unplaced points.
func (s *PlanService) SuggestCards(ctx context.Context, projectID string) ([]ioplan.CardSuggestion, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		metrics.IncSuggestion(metrics.ResultError)
		return nil, err
	}
	var unplaced []ioplan.IOPoint
	for _, point := range points {
		if !point.Assigned() {
			unplaced = append(unplaced, point)
		}
	}
	metrics.IncSuggestion(metrics.ResultSuccess)
	return ioplan.SuggestCardsWithSizes(unplaced, s.config.CardSizes), nil
}

// ValidateProject runs ingestion-level snapshot checks.
func (s *PlanService) ValidateProject(ctx context.Context, projectID string) ([]ioplan.Finding, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ioplan.ValidateSnapshot(points, cards), nil
}

// CheckAddressConflict returns the tags already occupying the given
// channel, excluding excludeTag. An empty slice means the address is
// free.
func (s *PlanService) CheckAddressConflict(ctx context.Context, projectID string, ref ioplan.CardRef, channel int, excludeTag string) ([]string, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var occupants []string
	for _, point := range points {
		if !point.Assigned() {
			continue
		}
		if point.PLCName != ref.PLCName || *point.Rack != ref.Rack || *point.Slot != ref.Slot {
			continue
		}
		if *point.Channel != channel {
			continue
		}
		if excludeTag != "" && strings.EqualFold(point.Tag, excludeTag) {
			continue
		}
		occupants = append(occupants, point.Tag)
	}
	return occupants, nil
}

// NextPointTag returns the next free sequential tag for the prefix,
// formatted PREFIX-NNN.
func (s *PlanService) NextPointTag(ctx context.Context, projectID, prefix string) (string, error) {
	if s == nil {
		return "", errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return "", err
	}
	if prefix == "" {
		prefix = s.config.TagPrefix
	}
	points, err := s.points.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	highest := 0
	for _, point := range points {
		rest, ok := cutTagPrefix(point.Tag, prefix)
		if !ok {
			continue
		}
		number, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if number > highest {
			highest = number
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, highest+1), nil
}

// GetProject returns the project after a tenant ownership check.
func (s *PlanService) GetProject(ctx context.Context, projectID string) (*ioplan.Project, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projects.Get(ctx, projectID)
}

// ListPoints returns all points of a project.
func (s *PlanService) ListPoints(ctx context.Context, projectID string) ([]ioplan.IOPoint, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.points.ListByProject(ctx, projectID)
}

// ListCards returns all cards of a project.
func (s *PlanService) ListCards(ctx context.Context, projectID string) ([]ioplan.Card, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.cards.ListByProject(ctx, projectID)
}

// CreatePoint validates and stores a new point. Tags must be unique per
// project regardless of case.
func (s *PlanService) CreatePoint(ctx context.Context, point *ioplan.IOPoint) (*ioplan.IOPoint, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if point == nil {
		return nil, errors.New("ioplan: nil point")
	}
	if err := s.ensureProject(ctx, point.ProjectID); err != nil {
		return nil, err
	}
	if err := point.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.points.ListByProject(ctx, point.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.Tag, point.Tag) {
			return nil, ioplan.ErrDuplicateTag
		}
	}
	if point.ID == "" {
		point.ID = newID("point")
	}
	now := s.clock.Now().UTC()
	point.CreatedAt = now
	point.UpdatedAt = now
	if err := s.points.Save(ctx, point); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "io.point.create", "io_point", point.ID, point.ProjectID, point)
	return point, nil
}

// SaveCard validates and stores a card. The position triple must be
// unique per project; duplicates are rejected at ingestion.
func (s *PlanService) SaveCard(ctx context.Context, card *ioplan.Card) (*ioplan.Card, error) {
	if s == nil {
		return nil, errors.New("ioplan: nil service")
	}
	if card == nil {
		return nil, errors.New("ioplan: nil card")
	}
	if err := s.ensureProject(ctx, card.ProjectID); err != nil {
		return nil, err
	}
	if card.Channels == 0 {
		card.Channels = s.config.DefaultChannels
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.cards.ListByProject(ctx, card.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.ID != card.ID && other.Ref() == card.Ref() {
			return nil, ioplan.ErrDuplicateCard
		}
	}
	now := s.clock.Now().UTC()
	if card.ID == "" {
		card.ID = newID("card")
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	if err := s.cards.Save(ctx, card); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "io.card.save", "io_card", card.ID, card.ProjectID, card)
	return card, nil
}

func (s *PlanService) ensureProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return errors.New("ioplan: project id required")
	}
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ioplan.ErrProjectNotFound
	}
	tenantID := auth.TenantIDFromContext(ctx)
	if tenantID == "" {
		tenantID = s.tenantID
	}
	if tenantID != "" && project.TenantID != tenantID {
		return auth.ErrTenantMismatch
	}
	return nil
}

func (s *PlanService) recordAudit(ctx context.Context, action, resourceType, resourceID, projectID string, payload any) {
	if s == nil || s.auditor == nil {
		return
	}
	var metadata json.RawMessage
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			metadata = data
		}
	}
	entry := audit.Entry{
		TenantID:     auth.TenantIDFromContext(ctx),
		Actor:        auth.SubjectFromContext(ctx),
		Role:         string(auth.RoleFromContext(ctx)),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ProjectID:    projectID,
		Metadata:     metadata,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if entry.TenantID == "" {
		entry.TenantID = s.tenantID
	}
	_ = s.auditor.Log(ctx, entry)
}

func cutTagPrefix(tag, prefix string) (string, bool) {
	if len(tag) <= len(prefix)+1 {
		return "", false
	}
	if !strings.EqualFold(tag[:len(prefix)], prefix) {
		return "", false
	}
	if tag[len(prefix)] != '-' {
		return "", false
	}
	return tag[len(prefix)+1:], true
}

func newID(kind string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return kind + "-" + hex.EncodeToString(buf)
}

func intPtr(v int) *int { return &v }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
