package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const accountsTable = "accounts"

type AccountRepository interface {
	ListAccounts() ([]domain.Account, error)
	GetAccountByID(accountID string) (*domain.Account, error)
	SaveOrUpdate(accounts []domain.Account) error
	DeleteAccount(accountID string) error
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (a *accountRepository) ListAccounts() ([]domain.Account, error) {
	accountsSQL, accountsArgs, err := squirrel.
		Select("id, name, cnpj, segment, segment_id, voc_pendente, success_plan_id, products, activities, contacts").
		From(accountsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.conn.Query(accountsSQL, accountsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.Account{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := deserializeAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (a *accountRepository) GetAccountByID(accountID string) (*domain.Account, error) {
	accountSQL, accountArgs, err := squirrel.
		Select("id, name, cnpj, segment, segment_id, voc_pendente, success_plan_id, products, activities, contacts").
		From(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := a.conn.QueryRow(accountSQL, accountArgs...)

	acc, err := deserializeAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return acc, nil
}

// SaveOrUpdate grava o lote de contas com upsert por id. As coleções aninhadas
// (produtos, atividades, contatos) são serializadas como JSONB
func (a *accountRepository) SaveOrUpdate(accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert(accountsTable).
		Columns("id", "name", "cnpj", "segment", "segment_id", "voc_pendente", "success_plan_id", "products", "activities", "contacts").
		PlaceholderFormat(squirrel.Dollar)

	for _, account := range accounts {
		products, err := json.Marshal(account.Products)
		if err != nil {
			return fmt.Errorf("erro ao serializar produtos da conta %s: %w", account.ID, err)
		}
		activities, err := json.Marshal(account.Activities)
		if err != nil {
			return fmt.Errorf("erro ao serializar atividades da conta %s: %w", account.ID, err)
		}
		contacts, err := json.Marshal(account.Contacts)
		if err != nil {
			return fmt.Errorf("erro ao serializar contatos da conta %s: %w", account.ID, err)
		}

		query = query.Values(
			account.ID,
			account.Name,
			account.CNPJ,
			account.Segment,
			account.SegmentID,
			account.VOCPendente,
			account.SuccessPlanID,
			products,
			activities,
			contacts,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				cnpj = EXCLUDED.cnpj,
				segment = EXCLUDED.segment,
				segment_id = EXCLUDED.segment_id,
				voc_pendente = EXCLUDED.voc_pendente,
				success_plan_id = EXCLUDED.success_plan_id,
				products = EXCLUDED.products,
				activities = EXCLUDED.activities,
				contacts = EXCLUDED.contacts
		`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = a.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (a *accountRepository) DeleteAccount(accountID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := a.conn.Exec(deleteSQL, deleteArgs...)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func deserializeAccount(row rowScanner) (*domain.Account, error) {
	acc := &domain.Account{}
	var products, activities, contacts []byte

	if err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.CNPJ,
		&acc.Segment,
		&acc.SegmentID,
		&acc.VOCPendente,
		&acc.SuccessPlanID,
		&products,
		&activities,
		&contacts,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(products, &acc.Products); err != nil {
		return nil, fmt.Errorf("erro ao deserializar produtos da conta %s: %w", acc.ID, err)
	}
	if err := json.Unmarshal(activities, &acc.Activities); err != nil {
		return nil, fmt.Errorf("erro ao deserializar atividades da conta %s: %w", acc.ID, err)
	}
	if err := json.Unmarshal(contacts, &acc.Contacts); err != nil {
		return nil, fmt.Errorf("erro ao deserializar contatos da conta %s: %w", acc.ID, err)
	}

	if acc.Products == nil {
		acc.Products = []domain.Product{}
	}
	if acc.Activities == nil {
		acc.Activities = []domain.Activity{}
	}

	return acc, nil
}
