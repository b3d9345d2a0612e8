package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/internal/domain"
)

const meetingsTable = "meetings"

type MeetingRepository interface {
	ListMeetings() ([]domain.Meeting, error)
	ListMeetingsByAccount(accountID string) ([]domain.Meeting, error)
	GetMeetingByID(meetingID string) (*domain.Meeting, error)
	SaveOrUpdate(meeting domain.Meeting) error
	DeleteMeeting(meetingID string) error
}

type meetingRepository struct {
	conn *postgres.Connection
}

func NewMeetingRepository(conn *postgres.Connection) MeetingRepository {
	return &meetingRepository{
		conn: conn,
	}
}

func (m *meetingRepository) ListMeetings() ([]domain.Meeting, error) {
	return m.listMeetings(nil)
}

func (m *meetingRepository) ListMeetingsByAccount(accountID string) ([]domain.Meeting, error) {
	return m.listMeetings(squirrel.Eq{"account_id": accountID})
}

func (m *meetingRepository) listMeetings(where any) ([]domain.Meeting, error) {
	queryBuilder := squirrel.
		Select("payload").
		From(meetingsTable).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	meetingsSQL, meetingsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.conn.Query(meetingsSQL, meetingsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return []domain.Meeting{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	meetings := make([]domain.Meeting, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var meeting domain.Meeting
		if err := json.Unmarshal(payload, &meeting); err != nil {
			return nil, fmt.Errorf("erro ao deserializar reunião: %w", err)
		}
		meetings = append(meetings, meeting)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return meetings, nil
}

func (m *meetingRepository) GetMeetingByID(meetingID string) (*domain.Meeting, error) {
	meetingSQL, meetingArgs, err := squirrel.
		Select("payload").
		From(meetingsTable).
		Where(squirrel.Eq{"id": meetingID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if err := m.conn.QueryRow(meetingSQL, meetingArgs...).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var meeting domain.Meeting
	if err := json.Unmarshal(payload, &meeting); err != nil {
		return nil, fmt.Errorf("erro ao deserializar reunião %s: %w", meetingID, err)
	}

	return &meeting, nil
}

// SaveOrUpdate grava a reunião inteira como payload JSONB, com as colunas de
// chave replicadas para consulta
func (m *meetingRepository) SaveOrUpdate(meeting domain.Meeting) error {
	payload, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("erro ao serializar reunião %s: %w", meeting.ID, err)
	}

	upsertSQL, upsertArgs, err := squirrel.StatementBuilder.
		Insert(meetingsTable).
		Columns("id", "account_id", "date", "payload").
		Values(meeting.ID, meeting.AccountID, meeting.Date, payload).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				date = EXCLUDED.date,
				payload = EXCLUDED.payload
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = m.conn.Exec(upsertSQL, upsertArgs...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (m *meetingRepository) DeleteMeeting(meetingID string) error {
	deleteSQL, deleteArgs, err := squirrel.
		Delete(meetingsTable).
		Where(squirrel.Eq{"id": meetingID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = m.conn.Exec(deleteSQL, deleteArgs...)
	return err
}
