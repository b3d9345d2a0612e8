package notifying

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/vfg2006/customer-success-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Input reúne os razões e o relógio de referência do cálculo. Now ancora o
// recorte de "mês atual" e de "hoje/amanhã", mantendo o cálculo determinístico
type Input struct {
	Accounts         []domain.Account
	TicketRecords    []domain.TicketRecord
	FinancialRecords []domain.FinancialRecord
	Meetings         []domain.Meeting
	Now              time.Time
}

type Service interface {
	Compute(in Input) []domain.Notification
}

type service struct{}

func NewService() Service {
	return &service{}
}

// Compute deriva as notificações a partir dos razões. O resultado nunca é
// persistido: cada chamada reconstrói a lista inteira e a devolve ordenada da
// mais recente para a mais antiga
func (s *service) Compute(in Input) []domain.Notification {
	accountNames := make(map[string]string, len(in.Accounts))
	for _, acc := range in.Accounts {
		accountNames[acc.ID] = acc.Name
	}

	notifs := make([]domain.Notification, 0)
	notifs = append(notifs, criticalTicketAlerts(in.TicketRecords, accountNames)...)
	notifs = append(notifs, financialRiskAlerts(in.FinancialRecords, accountNames, in.Now)...)
	notifs = append(notifs, upcomingMeetingAlerts(in.Meetings, in.Now)...)

	sort.SliceStable(notifs, func(i, j int) bool {
		return notifs[i].Timestamp.After(notifs[j].Timestamp)
	})

	return notifs
}

func criticalTicketAlerts(tickets []domain.TicketRecord, accountNames map[string]string) []domain.Notification {
	notifs := make([]domain.Notification, 0)

	for _, t := range tickets {
		if !t.IsUnresolvedCritical() {
			continue
		}

		name := accountNames[t.AccountID]
		if name == "" {
			name = "Cliente"
		}

		openedAt, _ := time.Parse(dateLayout, t.OpenedAt)

		notifs = append(notifs, domain.Notification{
			ID:        "notif-tick-" + t.ID,
			Type:      domain.NotificationRisk,
			Title:     "Ticket Crítico: " + name,
			Message:   t.Subject,
			Timestamp: openedAt,
			LinkTo:    "tickets",
		})
	}

	return notifs
}

func financialRiskAlerts(records []domain.FinancialRecord, accountNames map[string]string, now time.Time) []domain.Notification {
	notifs := make([]domain.Notification, 0)
	currentMonth := now.Format("2006-01")

	for _, r := range records {
		if !r.Type.IsRiskMovement() {
			continue
		}
		if len(r.Date) < len(currentMonth) || r.Date[:len(currentMonth)] != currentMonth {
			continue
		}

		name := accountNames[r.AccountID]
		if name == "" {
			name = "Cliente"
		}

		recordDate, _ := time.Parse(dateLayout, r.Date)
		amount := strconv.FormatFloat(r.Amount, 'f', -1, 64)

		notifs = append(notifs, domain.Notification{
			ID:        "notif-fin-" + r.ID,
			Type:      domain.NotificationRisk,
			Title:     "Alerta Financeiro: " + name,
			Message:   fmt.Sprintf("Registro de %s identificado no valor de R$ %s.", r.Type, amount),
			Timestamp: recordDate,
			LinkTo:    "financials",
		})
	}

	return notifs
}

func upcomingMeetingAlerts(meetings []domain.Meeting, now time.Time) []domain.Notification {
	notifs := make([]domain.Notification, 0)

	for _, m := range meetings {
		meetDate, err := time.Parse(dateLayout, m.Date)
		if err != nil {
			continue
		}

		diffDays := int(math.Ceil(meetDate.Sub(now).Hours() / 24))
		if diffDays < 0 || diffDays > 1 {
			continue
		}

		when := "Hoje"
		if diffDays == 1 {
			when = "Amanhã"
		}

		notifs = append(notifs, domain.Notification{
			ID:        "notif-meet-" + m.ID,
			Type:      domain.NotificationTask,
			Title:     "Reunião Próxima: " + m.AccountName,
			Message:   fmt.Sprintf("%s agendada para %s. Prepare a pauta.", m.Type, when),
			Timestamp: now,
			LinkTo:    "meetings",
		})
	}

	return notifs
}
