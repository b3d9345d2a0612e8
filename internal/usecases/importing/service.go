package importing

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/pkg/utils"
)

// MergeResult informa o saldo de uma importação em lote
type MergeResult struct {
	Accounts []domain.Account `json:"-"`
	Created  int              `json:"created"`
	Updated  int              `json:"updated"`
}

type Service interface {
	MergeAccounts(existing, incoming []domain.Account) (MergeResult, error)
	UpsertFinancialRecords(existing, incoming []domain.FinancialRecord) []domain.FinancialRecord
	UpsertTicketRecords(existing, incoming []domain.TicketRecord) []domain.TicketRecord
	ApplyPlaybook(playbook domain.Playbook, accountID, owner string, now time.Time) ([]domain.Activity, error)
}

type service struct{}

func NewService() Service {
	return &service{}
}

// MergeAccounts aplica um lote de contas importadas sobre a coleção canônica
// com semântica de upsert: casa primeiro por id e, na ausência dele, por nome
// sem diferenciar maiúsculas. A coleção de entrada não é mutada
func (s *service) MergeAccounts(existing, incoming []domain.Account) (MergeResult, error) {
	merged := make([]domain.Account, len(existing))
	copy(merged, existing)

	result := MergeResult{}

	for _, imp := range incoming {
		idx := findAccount(merged, imp)
		if idx >= 0 {
			merged[idx] = mergeAccount(merged[idx], imp)
			result.Updated++
			continue
		}

		account := imp
		if account.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return MergeResult{}, errors.Wrap(err, "erro ao gerar id de conta importada")
			}
			account.ID = "acc-" + id
		}
		if account.Products == nil {
			account.Products = []domain.Product{}
		}
		if account.Activities == nil {
			account.Activities = []domain.Activity{}
		}
		if account.Contacts == nil {
			account.Contacts = []domain.Contact{}
		}

		merged = append(merged, account)
		result.Created++
	}

	result.Accounts = merged
	return result, nil
}

func findAccount(accounts []domain.Account, imported domain.Account) int {
	for i, acc := range accounts {
		if imported.ID != "" && acc.ID == imported.ID {
			return i
		}
		if strings.EqualFold(acc.Name, imported.Name) {
			return i
		}
	}
	return -1
}

// mergeAccount sobrepõe os campos presentes na importação e preserva o que o
// lote não trouxe. Fatias ausentes nunca apagam produtos ou atividades já
// cadastrados
func mergeAccount(existing, imported domain.Account) domain.Account {
	merged := existing

	if imported.Name != "" {
		merged.Name = imported.Name
	}
	if imported.CNPJ != "" {
		merged.CNPJ = imported.CNPJ
	}
	if imported.Segment != "" {
		merged.Segment = imported.Segment
	}
	if imported.SegmentID != "" {
		merged.SegmentID = imported.SegmentID
	}
	if imported.SuccessPlanID != "" {
		merged.SuccessPlanID = imported.SuccessPlanID
	}
	if imported.VOCPendente != 0 {
		merged.VOCPendente = imported.VOCPendente
	}
	if len(imported.Products) > 0 {
		merged.Products = imported.Products
	}
	if len(imported.Activities) > 0 {
		merged.Activities = imported.Activities
	}
	if len(imported.Contacts) > 0 {
		merged.Contacts = imported.Contacts
	}

	return merged
}

// UpsertFinancialRecords substitui registros existentes com a mesma tripla
// (conta, produto, data) e anexa os demais. A fatia de entrada não é mutada
func (s *service) UpsertFinancialRecords(existing, incoming []domain.FinancialRecord) []domain.FinancialRecord {
	merged := make([]domain.FinancialRecord, len(existing))
	copy(merged, existing)

	for _, rec := range incoming {
		replaced := false
		for i, cur := range merged {
			if cur.AccountID == rec.AccountID && cur.ProductID == rec.ProductID && cur.Date == rec.Date {
				merged[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, rec)
		}
	}

	return merged
}

// UpsertTicketRecords usa o externalId como chave natural: reimportar o mesmo
// ticket substitui o registro anterior em vez de duplicá-lo
func (s *service) UpsertTicketRecords(existing, incoming []domain.TicketRecord) []domain.TicketRecord {
	merged := make([]domain.TicketRecord, len(existing))
	copy(merged, existing)

	for _, ticket := range incoming {
		replaced := false
		for i, cur := range merged {
			if cur.ExternalID == ticket.ExternalID {
				merged[i] = ticket
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, ticket)
		}
	}

	return merged
}

// ApplyPlaybook materializa os modelos de tarefa de um playbook em atividades
// para a conta. Os vencimentos são calculados a partir de now
func (s *service) ApplyPlaybook(playbook domain.Playbook, accountID, owner string, now time.Time) ([]domain.Activity, error) {
	if owner == "" {
		owner = "A definir"
	}

	activities := make([]domain.Activity, 0, len(playbook.Tasks))
	for _, task := range playbook.Tasks {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar id de atividade do playbook")
		}

		notes := task.NotesTemplate
		if notes == "" {
			notes = "Gerado automaticamente pelo playbook: " + playbook.Title
		}

		activities = append(activities, domain.Activity{
			ID:        "act-pb-" + id,
			AccountID: accountID,
			Title:     fmt.Sprintf("[%s] %s", playbook.Title, task.Title),
			Category:  task.Category,
			Urgency:   task.Urgency,
			Status:    domain.ActivityStatusPending,
			Owner:     owner,
			DueDate:   now.AddDate(0, 0, task.DaysDue).Format("2006-01-02"),
			AlertDays: 2,
			Notes:     notes,
		})
	}

	return activities, nil
}
