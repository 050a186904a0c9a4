package ioplan

import "context"

// PointRepository manages I/O point persistence.
type PointRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]IOPoint, error)
	GetByTag(ctx context.Context, projectID, tag string) (*IOPoint, error)
	Save(ctx context.Context, point *IOPoint) error
	Delete(ctx context.Context, id string) error
}

// CardRepository manages card persistence.
type CardRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]Card, error)
	Save(ctx context.Context, card *Card) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepository manages project persistence.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*Project, error)
	Save(ctx context.Context, project *Project) error
}
