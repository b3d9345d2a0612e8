package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const ticketRecordsTable = "ticket_records"

type TicketRepository interface {
	ListTicketRecords() ([]domain.TicketRecord, error)
	ListTicketRecordsByAccount(accountID string) ([]domain.TicketRecord, error)
	SaveOrUpdate(records []domain.TicketRecord) error
	DeleteTicketRecord(recordID string) error
}

type ticketRepository struct {
	conn *postgres.Connection
}

func NewTicketRepository(conn *postgres.Connection) TicketRepository {
	return &ticketRepository{
		conn: conn,
	}
}

func (t *ticketRepository) ListTicketRecords() ([]domain.TicketRecord, error) {
	return t.listTicketRecords(nil)
}

func (t *ticketRepository) ListTicketRecordsByAccount(accountID string) ([]domain.TicketRecord, error) {
	return t.listTicketRecords(squirrel.Eq{"account_id": accountID})
}

func (t *ticketRepository) listTicketRecords(where any) ([]domain.TicketRecord, error) {
	queryBuilder := squirrel.
		Select("id, external_id, account_id, subject, type, status, priority, opened_at, closed_at").
		From(ticketRecordsTable).
		OrderBy("opened_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	recordsSQL, recordsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := t.conn.Query(recordsSQL, recordsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.TicketRecord{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.TicketRecord, 0)
	for rows.Next() {
		var record domain.TicketRecord
		var closedAt sql.NullString
		if err := rows.Scan(
			&record.ID,
			&record.ExternalID,
			&record.AccountID,
			&record.Subject,
			&record.Type,
			&record.Status,
			&record.Priority,
			&record.OpenedAt,
			&closedAt,
		); err != nil {
			return nil, err
		}
		if closedAt.Valid {
			record.ClosedAt = closedAt.String
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// SaveOrUpdate grava o lote de tickets sincronizados. A chave natural é o
// external_id do sistema de origem: o mesmo ticket reimportado substitui o
// registro existente
func (t *ticketRepository) SaveOrUpdate(records []domain.TicketRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(ticketRecordsTable).
		Columns("id", "external_id", "account_id", "subject", "type", "status", "priority", "opened_at", "closed_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, record := range records {
		var closedAt any
		if record.ClosedAt != "" {
			closedAt = record.ClosedAt
		}

		query = query.Values(
			record.ID,
			record.ExternalID,
			record.AccountID,
			record.Subject,
			record.Type,
			record.Status,
			record.Priority,
			record.OpenedAt,
			closedAt,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (external_id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				subject = EXCLUDED.subject,
				type = EXCLUDED.type,
				status = EXCLUDED.status,
				priority = EXCLUDED.priority,
				opened_at = EXCLUDED.opened_at,
				closed_at = EXCLUDED.closed_at
		`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = t.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (t *ticketRepository) DeleteTicketRecord(recordID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(ticketRecordsTable).
		Where(squirrel.Eq{"id": recordID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := t.conn.Exec(deleteSQL, deleteArgs...)
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
