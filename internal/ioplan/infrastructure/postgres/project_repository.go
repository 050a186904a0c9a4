package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ioplan "ioforge/internal/ioplan/domain"
)

const defaultProjectsTable = "io_projects"

// ProjectRepository is a Postgres implementation for projects.
type ProjectRepository struct {
	db    DBTX
	table string
}

// NewProjectRepository constructs a repository.
func NewProjectRepository(db DBTX, opts ...ProjectOption) *ProjectRepository {
	repo := &ProjectRepository{db: db, table: defaultProjectsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ProjectOption configures the repository.
type ProjectOption func(*ProjectRepository)

// WithProjectTable overrides the default table name.
func WithProjectTable(table string) ProjectOption {
	return func(repo *ProjectRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Get loads a project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*ioplan.Project, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("project repo: nil db")
	}
	if id == "" {
		return nil, errors.New("project repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, tenant_id, name, description, client, engineer, major_revision, minor_revision, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var project ioplan.Project
	var description, client, engineer sql.NullString
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.TenantID,
		&project.Name,
		&description,
		&client,
		&engineer,
		&project.MajorRevision,
		&project.MinorRevision,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	project.Description = description.String
	project.Client = client.String
	project.Engineer = engineer.String
	project.CreatedAt = project.CreatedAt.UTC()
	project.UpdatedAt = project.UpdatedAt.UTC()
	return &project, nil
}

// Save upserts a project.
func (r *ProjectRepository) Save(ctx context.Context, project *ioplan.Project) error {
	if r == nil || r.db == nil {
		return errors.New("project repo: nil db")
	}
	if project == nil {
		return errors.New("project repo: nil project")
	}
	if err := project.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	tenant_id,
	name,
	description,
	client,
	engineer,
	major_revision,
	minor_revision
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)
ON CONFLICT (id)
DO UPDATE SET
	tenant_id = EXCLUDED.tenant_id,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	client = EXCLUDED.client,
	engineer = EXCLUDED.engineer,
	major_revision = EXCLUDED.major_revision,
	minor_revision = EXCLUDED.minor_revision,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.TenantID,
		project.Name,
		nullString(project.Description),
		nullString(project.Client),
		nullString(project.Engineer),
		project.MajorRevision,
		project.MinorRevision,
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	return nil
}
