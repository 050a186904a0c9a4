package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ioplan "ioforge/internal/ioplan/domain"
)

const defaultPointsTable = "io_points"

// PointRepository is a Postgres implementation for I/O points.
type PointRepository struct {
	db    DBTX
	table string
}

// NewPointRepository constructs a repository.
func NewPointRepository(db DBTX, opts ...PointOption) *PointRepository {
	repo := &PointRepository{db: db, table: defaultPointsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// PointOption configures the repository.
type PointOption func(*PointRepository)

// WithPointTable overrides the default table name.
func WithPointTable(table string) PointOption {
	return func(repo *PointRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

const pointColumns = `id, project_id, tag, description, io_type, signal_type, plc_name, rack, slot, channel, terminal_block, cable_id, notes, created_at, updated_at`

// ListByProject loads all points of a project ordered by tag.
func (r *PointRepository) ListByProject(ctx context.Context, projectID string) ([]ioplan.IOPoint, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("point repo: nil db")
	}
	if projectID == "" {
		return nil, errors.New("point repo: empty project id")
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE project_id = $1
ORDER BY tag ASC`, pointColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ioplan.IOPoint
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByTag loads a point by case-insensitive tag, or nil.
func (r *PointRepository) GetByTag(ctx context.Context, projectID, tag string) (*ioplan.IOPoint, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("point repo: nil db")
	}
	if projectID == "" || tag == "" {
		return nil, errors.New("point repo: empty project id or tag")
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE project_id = $1 AND LOWER(tag) = LOWER($2)
LIMIT 1`, pointColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, projectID, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	point, err := scanPoint(rows)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// Save upserts a point.
func (r *PointRepository) Save(ctx context.Context, point *ioplan.IOPoint) error {
	if r == nil || r.db == nil {
		return errors.New("point repo: nil db")
	}
	if point == nil {
		return errors.New("point repo: nil point")
	}
	if err := point.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	project_id,
	tag,
	description,
	io_type,
	signal_type,
	plc_name,
	rack,
	slot,
	channel,
	terminal_block,
	cable_id,
	notes
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)
ON CONFLICT (id)
DO UPDATE SET
	project_id = EXCLUDED.project_id,
	tag = EXCLUDED.tag,
	description = EXCLUDED.description,
	io_type = EXCLUDED.io_type,
	signal_type = EXCLUDED.signal_type,
	plc_name = EXCLUDED.plc_name,
	rack = EXCLUDED.rack,
	slot = EXCLUDED.slot,
	channel = EXCLUDED.channel,
	terminal_block = EXCLUDED.terminal_block,
	cable_id = EXCLUDED.cable_id,
	notes = EXCLUDED.notes,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		point.ID,
		point.ProjectID,
		point.Tag,
		nullString(point.Description),
		nullString(string(point.IOType)),
		nullString(string(point.SignalType)),
		nullString(point.PLCName),
		nullIntPtr(point.Rack),
		nullIntPtr(point.Slot),
		nullIntPtr(point.Channel),
		nullString(point.TerminalBlock),
		nullString(point.CableID),
		nullString(point.Notes),
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now
	return nil
}

// Delete removes a point by id.
func (r *PointRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("point repo: nil db")
	}
	if id == "" {
		return errors.New("point repo: empty id")
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ioplan.ErrPointNotFound
	}
	return nil
}

func scanPoint(rows *sql.Rows) (ioplan.IOPoint, error) {
	var point ioplan.IOPoint
	var description, ioType, signalType, plcName, terminalBlock, cableID, notes sql.NullString
	var rack, slot, channel sql.NullInt64
	if err := rows.Scan(
		&point.ID,
		&point.ProjectID,
		&point.Tag,
		&description,
		&ioType,
		&signalType,
		&plcName,
		&rack,
		&slot,
		&channel,
		&terminalBlock,
		&cableID,
		&notes,
		&point.CreatedAt,
		&point.UpdatedAt,
	); err != nil {
		return ioplan.IOPoint{}, err
	}
	point.Description = description.String
	point.IOType = ioplan.IOType(ioType.String)
	point.SignalType = ioplan.SignalType(signalType.String)
	point.PLCName = plcName.String
	point.Rack = intPtrFromNull(rack)
	point.Slot = intPtrFromNull(slot)
	point.Channel = intPtrFromNull(channel)
	point.TerminalBlock = terminalBlock.String
	point.CableID = cableID.String
	point.Notes = notes.String
	point.CreatedAt = point.CreatedAt.UTC()
	point.UpdatedAt = point.UpdatedAt.UTC()
	return point, nil
}
