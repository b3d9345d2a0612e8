package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const playbooksTable = "playbooks"

type PlaybookRepository interface {
	ListPlaybooks() ([]domain.Playbook, error)
	GetPlaybookByID(playbookID string) (*domain.Playbook, error)
	SaveOrUpdate(playbook domain.Playbook) error
	DeletePlaybook(playbookID string) error
}

type playbookRepository struct {
	conn *postgres.Connection
}

func NewPlaybookRepository(conn *postgres.Connection) PlaybookRepository {
	return &playbookRepository{
		conn: conn,
	}
}

func (p *playbookRepository) ListPlaybooks() ([]domain.Playbook, error) {
	playbooksSQL, playbooksArgs, err := squirrel.
		Select("id, title, description, trigger_event, tasks").
		From(playbooksTable).
		OrderBy("title ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.conn.Query(playbooksSQL, playbooksArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.Playbook{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	playbooks := make([]domain.Playbook, 0)
	for rows.Next() {
		playbook, err := deserializePlaybook(rows)
		if err != nil {
			return nil, err
		}
		playbooks = append(playbooks, *playbook)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return playbooks, nil
}

func (p *playbookRepository) GetPlaybookByID(playbookID string) (*domain.Playbook, error) {
	playbookSQL, playbookArgs, err := squirrel.
		Select("id, title, description, trigger_event, tasks").
		From(playbooksTable).
		Where(squirrel.Eq{"id": playbookID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := p.conn.QueryRow(playbookSQL, playbookArgs...)

	playbook, err := deserializePlaybook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return playbook, nil
}

func (p *playbookRepository) SaveOrUpdate(playbook domain.Playbook) error {
	tasks, err := json.Marshal(playbook.Tasks)
	if err != nil {
		return fmt.Errorf("erro ao serializar tarefas do playbook %s: %w", playbook.ID, err)
	}

	upsertSQL, upsertArgs, err := squirrel.StatementBuilder.
		Insert(playbooksTable).
		Columns("id", "title", "description", "trigger_event", "tasks").
		Values(playbook.ID, playbook.Title, playbook.Description, playbook.Trigger, tasks).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				trigger_event = EXCLUDED.trigger_event,
				tasks = EXCLUDED.tasks
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = p.conn.Exec(upsertSQL, upsertArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (p *playbookRepository) DeletePlaybook(playbookID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(playbooksTable).
		Where(squirrel.Eq{"id": playbookID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := p.conn.Exec(deleteSQL, deleteArgs...)
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

func deserializePlaybook(row rowScanner) (*domain.Playbook, error) {
	playbook := &domain.Playbook{}
	var description, trigger sql.NullString
	var tasks []byte

	if err := row.Scan(
		&playbook.ID,
		&playbook.Title,
		&description,
		&trigger,
		&tasks,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		playbook.Description = description.String
	}
	if trigger.Valid {
		playbook.Trigger = trigger.String
	}

	if err := json.Unmarshal(tasks, &playbook.Tasks); err != nil {
		return nil, fmt.Errorf("erro ao deserializar tarefas do playbook %s: %w", playbook.ID, err)
	}
	if playbook.Tasks == nil {
		playbook.Tasks = []domain.PlaybookTaskTemplate{}
	}

	return playbook, nil
}
