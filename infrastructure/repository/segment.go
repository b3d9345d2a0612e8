package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const segmentsTable = "segments"

type SegmentRepository interface {
	ListSegments() ([]domain.AccountSegment, error)
	SaveOrUpdate(segment domain.AccountSegment) error
	DeleteSegment(segmentID string) error
}

type segmentRepository struct {
	conn *postgres.Connection
}

func NewSegmentRepository(conn *postgres.Connection) SegmentRepository {
	return &segmentRepository{
		conn: conn,
	}
}

func (s *segmentRepository) ListSegments() ([]domain.AccountSegment, error) {
	segmentsSQL, segmentsArgs, err := squirrel.
		Select("id, name, description").
		From(segmentsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(segmentsSQL, segmentsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.AccountSegment{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	segments := make([]domain.AccountSegment, 0)
	for rows.Next() {
		var segment domain.AccountSegment
		var description sql.NullString
		if err := rows.Scan(&segment.ID, &segment.Name, &description); err != nil {
			return nil, err
		}
		if description.Valid {
			segment.Description = description.String
		}
		segments = append(segments, segment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}

func (s *segmentRepository) SaveOrUpdate(segment domain.AccountSegment) error {
	upsertSQL, upsertArgs, err := squirrel.StatementBuilder.
		Insert(segmentsTable).
		Columns("id", "name", "description").
		Values(segment.ID, segment.Name, segment.Description).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = s.conn.Exec(upsertSQL, upsertArgs...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (s *segmentRepository) DeleteSegment(segmentID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(segmentsTable).
		Where(squirrel.Eq{"id": segmentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := s.conn.Exec(deleteSQL, deleteArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
