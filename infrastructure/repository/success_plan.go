package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const successPlansTable = "success_plans"

type SuccessPlanRepository interface {
	ListSuccessPlans() ([]domain.SuccessPlan, error)
	GetSuccessPlanByID(planID string) (*domain.SuccessPlan, error)
	SaveOrUpdate(plan domain.SuccessPlan) error
	DeleteSuccessPlan(planID string) error
}

type successPlanRepository struct {
	conn *postgres.Connection
}

func NewSuccessPlanRepository(conn *postgres.Connection) SuccessPlanRepository {
	return &successPlanRepository{
		conn: conn,
	}
}

func (s *successPlanRepository) ListSuccessPlans() ([]domain.SuccessPlan, error) {
	plansSQL, plansArgs, err := squirrel.
		Select("payload").
		From(successPlansTable).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(plansSQL, plansArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.SuccessPlan{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	plans := make([]domain.SuccessPlan, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var plan domain.SuccessPlan
		if err := json.Unmarshal(payload, &plan); err != nil {
			return nil, fmt.Errorf("erro ao deserializar plano de sucesso: %w", err)
		}
		if plan.Milestones == nil {
			plan.Milestones = []domain.Milestone{}
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (s *successPlanRepository) GetSuccessPlanByID(planID string) (*domain.SuccessPlan, error) {
	planSQL, planArgs, err := squirrel.
		Select("payload").
		From(successPlansTable).
		Where(squirrel.Eq{"id": planID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if err := s.conn.QueryRow(planSQL, planArgs...).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var plan domain.SuccessPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("erro ao deserializar plano de sucesso %s: %w", planID, err)
	}
	if plan.Milestones == nil {
		plan.Milestones = []domain.Milestone{}
	}

	return &plan, nil
}

func (s *successPlanRepository) SaveOrUpdate(plan domain.SuccessPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("erro ao serializar plano de sucesso %s: %w", plan.ID, err)
	}

	upsertSQL, upsertArgs, err := squirrel.StatementBuilder.
		Insert(successPlansTable).
		Columns("id", "account_id", "payload").
		Values(plan.ID, plan.AccountID, payload).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				payload = EXCLUDED.payload
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = s.conn.Exec(upsertSQL, upsertArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (s *successPlanRepository) DeleteSuccessPlan(planID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(successPlansTable).
		Where(squirrel.Eq{"id": planID}).
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
