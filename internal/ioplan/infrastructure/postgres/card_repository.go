package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ioplan "ioforge/internal/ioplan/domain"
)

const defaultCardsTable = "io_cards"

// CardRepository is a Postgres implementation for cards. The table
// carries a unique index on (project_id, plc_name, rack, slot) so a
// duplicate position is rejected by the database as well.
type CardRepository struct {
	db    DBTX
	table string
}

// NewCardRepository constructs a repository.
func NewCardRepository(db DBTX, opts ...CardOption) *CardRepository {
	repo := &CardRepository{db: db, table: defaultCardsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// CardOption configures the repository.
type CardOption func(*CardRepository)

// WithCardTable overrides the default table name.
func WithCardTable(table string) CardOption {
	return func(repo *CardRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// ListByProject loads all cards of a project ordered by position.
func (r *CardRepository) ListByProject(ctx context.Context, projectID string) ([]ioplan.Card, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("card repo: nil db")
	}
	if projectID == "" {
		return nil, errors.New("card repo: empty project id")
	}

	query := fmt.Sprintf(`
SELECT id, project_id, plc_name, rack, slot, io_type, signal_type, channels, name, created_at, updated_at
FROM %s
WHERE project_id = $1
ORDER BY plc_name ASC, rack ASC, slot ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ioplan.Card
	for rows.Next() {
		var card ioplan.Card
		var signalType, name sql.NullString
		if err := rows.Scan(
			&card.ID,
			&card.ProjectID,
			&card.PLCName,
			&card.Rack,
			&card.Slot,
			&card.IOType,
			&signalType,
			&card.Channels,
			&name,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		card.SignalType = ioplan.SignalType(signalType.String)
		card.Name = name.String
		card.CreatedAt = card.CreatedAt.UTC()
		card.UpdatedAt = card.UpdatedAt.UTC()
		result = append(result, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts a card.
func (r *CardRepository) Save(ctx context.Context, card *ioplan.Card) error {
	if r == nil || r.db == nil {
		return errors.New("card repo: nil db")
	}
	if card == nil {
		return errors.New("card repo: nil card")
	}
	if err := card.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	project_id,
	plc_name,
	rack,
	slot,
	io_type,
	signal_type,
	channels,
	name
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (id)
DO UPDATE SET
	project_id = EXCLUDED.project_id,
	plc_name = EXCLUDED.plc_name,
	rack = EXCLUDED.rack,
	slot = EXCLUDED.slot,
	io_type = EXCLUDED.io_type,
	signal_type = EXCLUDED.signal_type,
	channels = EXCLUDED.channels,
	name = EXCLUDED.name,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.ProjectID,
		card.PLCName,
		card.Rack,
		card.Slot,
		string(card.IOType),
		nullString(string(card.SignalType)),
		card.Channels,
		nullString(card.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ioplan.ErrDuplicateCard
		}
		return err
	}
	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	return nil
}

// Delete removes a card by id.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("card repo: nil db")
	}
	if id == "" {
		return errors.New("card repo: empty id")
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
		return ioplan.ErrCardNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// pgx surfaces SQLSTATE 23505 for unique index violations.
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
