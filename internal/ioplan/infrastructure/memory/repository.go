package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	ioplan "ioforge/internal/ioplan/domain"
)

// PointRepository keeps points in memory. Safe for concurrent use.
type PointRepository struct {
	mu     sync.RWMutex
	points map[string]ioplan.IOPoint
}

// NewPointRepository constructs an empty point repository.
func NewPointRepository() *PointRepository {
	return &PointRepository{points: make(map[string]ioplan.IOPoint)}
}

// ListByProject returns all points of a project ordered by tag, the
// same order the database repository yields.
func (r *PointRepository) ListByProject(_ context.Context, projectID string) ([]ioplan.IOPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ioplan.IOPoint
	for _, point := range r.points {
		if point.ProjectID == projectID {
			result = append(result, clonePoint(point))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result, nil
}

// GetByTag returns the point with the tag, or nil.
func (r *PointRepository) GetByTag(_ context.Context, projectID, tag string) (*ioplan.IOPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, point := range r.points {
		if point.ProjectID == projectID && strings.EqualFold(point.Tag, tag) {
			copied := clonePoint(point)
			return &copied, nil
		}
	}
	return nil, nil
}

// Save stores a point keyed by id.
func (r *PointRepository) Save(_ context.Context, point *ioplan.IOPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[point.ID] = clonePoint(*point)
	return nil
}

// Delete removes a point by id.
func (r *PointRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.points[id]; !ok {
		return ioplan.ErrPointNotFound
	}
	delete(r.points, id)
	return nil
}

// CardRepository keeps cards in memory. Safe for concurrent use.
type CardRepository struct {
	mu    sync.RWMutex
	cards map[string]ioplan.Card
}

// NewCardRepository constructs an empty card repository.
func NewCardRepository() *CardRepository {
	return &CardRepository{cards: make(map[string]ioplan.Card)}
}

// ListByProject returns all cards of a project ordered by position,
// the same order the database repository yields.
func (r *CardRepository) ListByProject(_ context.Context, projectID string) ([]ioplan.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ioplan.Card
	for _, card := range r.cards {
		if card.ProjectID == projectID {
			result = append(result, card)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.PLCName != b.PLCName {
			return a.PLCName < b.PLCName
		}
		if a.Rack != b.Rack {
			return a.Rack < b.Rack
		}
		return a.Slot < b.Slot
	})
	return result, nil
}

// Save stores a card keyed by id.
func (r *CardRepository) Save(_ context.Context, card *ioplan.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.ID] = *card
	return nil
}

// Delete removes a card by id.
func (r *CardRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return ioplan.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

// ProjectRepository keeps projects in memory. Safe for concurrent use.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]ioplan.Project
}

// NewProjectRepository constructs an empty project repository.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[string]ioplan.Project)}
}

// Get returns the project with the id, or nil.
func (r *ProjectRepository) Get(_ context.Context, id string) (*ioplan.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	return &project, nil
}

// Save stores a project keyed by id.
func (r *ProjectRepository) Save(_ context.Context, project *ioplan.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	return nil
}

func clonePoint(point ioplan.IOPoint) ioplan.IOPoint {
	copied := point
	if point.Rack != nil {
		rack := *point.Rack
		copied.Rack = &rack
	}
	if point.Slot != nil {
		slot := *point.Slot
		copied.Slot = &slot
	}
	if point.Channel != nil {
		channel := *point.Channel
		copied.Channel = &channel
	}
	return copied
}
