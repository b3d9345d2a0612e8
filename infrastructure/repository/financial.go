package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const financialRecordsTable = "financial_records"

type FinancialRepository interface {
	ListFinancialRecords() ([]domain.FinancialRecord, error)
	ListFinancialRecordsByAccount(accountID string) ([]domain.FinancialRecord, error)
	SaveOrUpdate(records []domain.FinancialRecord) error
	DeleteFinancialRecord(recordID string) error
}

type financialRepository struct {
	conn *postgres.Connection
}

func NewFinancialRepository(conn *postgres.Connection) FinancialRepository {
	return &financialRepository{
		conn: conn,
	}
}

func (f *financialRepository) ListFinancialRecords() ([]domain.FinancialRecord, error) {
	return f.listFinancialRecords(nil)
}

func (f *financialRepository) ListFinancialRecordsByAccount(accountID string) ([]domain.FinancialRecord, error) {
	return f.listFinancialRecords(squirrel.Eq{"account_id": accountID})
}

func (f *financialRepository) listFinancialRecords(where any) ([]domain.FinancialRecord, error) {
	queryBuilder := squirrel.
		Select("id, account_id, product_id, date, amount, type").
		From(financialRecordsTable).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	recordsSQL, recordsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := f.conn.Query(recordsSQL, recordsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.FinancialRecord{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.FinancialRecord, 0)
	for rows.Next() {
		var record domain.FinancialRecord
		if err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.ProductID,
			&record.Date,
			&record.Amount,
			&record.Type,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// SaveOrUpdate grava o lote de registros financeiros. A chave natural do razão
// é (account_id, product_id, date): um registro novo na mesma tripla substitui
// o existente
func (f *financialRepository) SaveOrUpdate(records []domain.FinancialRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(financialRecordsTable).
		Columns("id", "account_id", "product_id", "date", "amount", "type").
		PlaceholderFormat(squirrel.Dollar)

	for _, record := range records {
		query = query.Values(
			record.ID,
			record.AccountID,
			record.ProductID,
			record.Date,
			record.Amount,
			record.Type,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (account_id, product_id, date) DO UPDATE SET
				id = EXCLUDED.id,
				amount = EXCLUDED.amount,
				type = EXCLUDED.type
		`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = f.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (f *financialRepository) DeleteFinancialRecord(recordID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(financialRecordsTable).
		Where(squirrel.Eq{"id": recordID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := f.conn.Exec(deleteSQL, deleteArgs...)
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
