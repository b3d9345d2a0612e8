// Package managing concentra as operações de escrita do CRM. Toda mutação
// persiste nos repositórios canônicos e dispara um novo ciclo de derivação
package managing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/infrastructure/repository"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/metrics"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/internal/usecases/importing"
	"github.com/vfg2006/customer-success-api/pkg/utils"
)

var (
	ErrAccountNotFound  = errors.New("conta não encontrada")
	ErrMeetingNotFound  = errors.New("reunião não encontrada")
	ErrPlanNotFound     = errors.New("plano de sucesso não encontrado")
	ErrPlaybookNotFound = errors.New("playbook não encontrado")
	ErrActivityNotFound = errors.New("atividade não encontrada")
	ErrMissingName      = errors.New("nome é obrigatório")
)

// ImportSummary resume o resultado de uma importação em lote
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Service interface {
	ListAccounts() []domain.Account
	GetAccount(accountID string) (*domain.Account, error)
	CreateAccount(account domain.Account) (*domain.Account, error)
	UpdateAccount(account domain.Account) (*domain.Account, error)
	DeleteAccount(accountID string) error

	AddActivity(accountID string, activity domain.Activity) (*domain.Activity, error)
	UpdateActivity(activityID string, activity domain.Activity) (*domain.Activity, error)

	ListMeetings(accountID string) []domain.Meeting
	CreateMeeting(meeting domain.Meeting) (*domain.Meeting, error)
	UpdateMeeting(meeting domain.Meeting) (*domain.Meeting, error)
	DeleteMeeting(meetingID string) error

	ListSuccessPlans() []domain.SuccessPlan
	CreateSuccessPlan(plan domain.SuccessPlan) (*domain.SuccessPlan, error)
	UpdateSuccessPlan(plan domain.SuccessPlan) (*domain.SuccessPlan, error)

	ListSegments() ([]domain.AccountSegment, error)
	CreateSegment(segment domain.AccountSegment) (*domain.AccountSegment, error)
	DeleteSegment(segmentID string) error

	ListPlaybooks() ([]domain.Playbook, error)
	ApplyPlaybook(accountID, playbookID, owner string) ([]domain.Activity, error)

	ImportAccountsCSV(raw string) (*importing.MergeResult, error)
	ImportFinancialRows(raw string) (*ImportSummary, error)
	ImportTicketRows(raw string) (*ImportSummary, error)
}

type service struct {
	accountRepo  repository.AccountRepository
	meetingRepo  repository.MeetingRepository
	planRepo     repository.SuccessPlanRepository
	segmentRepo  repository.SegmentRepository
	playbookRepo repository.PlaybookRepository
	financeRepo  repository.FinancialRepository
	ticketRepo   repository.TicketRepository
	importer     importing.Service
	derivation   deriving.Service
	now          func() time.Time
}

func NewService(
	accountRepo repository.AccountRepository,
	meetingRepo repository.MeetingRepository,
	planRepo repository.SuccessPlanRepository,
	segmentRepo repository.SegmentRepository,
	playbookRepo repository.PlaybookRepository,
	financeRepo repository.FinancialRepository,
	ticketRepo repository.TicketRepository,
	derivation deriving.Service,
) Service {
	return &service{
		accountRepo:  accountRepo,
		meetingRepo:  meetingRepo,
		planRepo:     planRepo,
		segmentRepo:  segmentRepo,
		playbookRepo: playbookRepo,
		financeRepo:  financeRepo,
		ticketRepo:   ticketRepo,
		importer:     importing.NewService(),
		derivation:   derivation,
		now:          time.Now,
	}
}

// refresh invalida o cache derivado e recomputa imediatamente, para que a
// próxima leitura já veja a mutação
func (s *service) refresh(trigger string) {
	s.derivation.Invalidate()
	if err := s.derivation.Refresh(context.Background(), trigger); err != nil {
		logrus.WithError(err).Error("Erro ao recomputar cache derivado após mutação")
	}
}

func (s *service) ListAccounts() []domain.Account {
	return s.derivation.Snapshot().Accounts
}

func (s *service) GetAccount(accountID string) (*domain.Account, error) {
	snapshot := s.derivation.Snapshot()
	for i := range snapshot.Accounts {
		if snapshot.Accounts[i].ID == accountID {
			return &snapshot.Accounts[i], nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *service) CreateAccount(account domain.Account) (*domain.Account, error) {
	if account.Name == "" {
		return nil, ErrMissingName
	}

	if account.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar identificador da conta")
		}
		account.ID = "acc-" + id
	}

	if account.Products == nil {
		account.Products = []domain.Product{}
	}
	if account.Activities == nil {
		account.Activities = []domain.Activity{}
	}

	if err := s.accountRepo.SaveOrUpdate([]domain.Account{account}); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar conta")
	}

	s.refresh("account-create")

	return &account, nil
}

func (s *service) UpdateAccount(account domain.Account) (*domain.Account, error) {
	existing, err := s.accountRepo.GetAccountByID(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar conta")
	}
	if existing == nil {
		return nil, ErrAccountNotFound
	}

	if account.Products == nil {
		account.Products = existing.Products
	}
	if account.Activities == nil {
		account.Activities = existing.Activities
	}
	if account.Contacts == nil {
		account.Contacts = existing.Contacts
	}

	if err := s.accountRepo.SaveOrUpdate([]domain.Account{account}); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar conta")
	}

	s.refresh("account-update")

	return &account, nil
}

func (s *service) DeleteAccount(accountID string) error {
	if err := s.accountRepo.DeleteAccount(accountID); err != nil {
		return err
	}

	s.refresh("account-delete")

	return nil
}

func (s *service) AddActivity(accountID string, activity domain.Activity) (*domain.Activity, error) {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar conta")
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if activity.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar identificador da atividade")
		}
		activity.ID = "act-" + id
	}
	if activity.Status == "" {
		activity.Status = domain.ActivityStatusPending
	}

	account.Activities = append(account.Activities, activity)

	if err := s.accountRepo.SaveOrUpdate([]domain.Account{*account}); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar atividade")
	}

	s.refresh("activity-create")

	return &activity, nil
}

func (s *service) UpdateActivity(activityID string, activity domain.Activity) (*domain.Activity, error) {
	accounts, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar contas")
	}

	for i := range accounts {
		for j := range accounts[i].Activities {
			if accounts[i].Activities[j].ID != activityID {
				continue
			}

			activity.ID = activityID
			accounts[i].Activities[j] = activity

			if err := s.accountRepo.SaveOrUpdate([]domain.Account{accounts[i]}); err != nil {
				return nil, errors.Wrap(err, "erro ao salvar atividade")
			}

			s.refresh("activity-update")

			return &activity, nil
		}
	}

	return nil, ErrActivityNotFound
}

func (s *service) ListMeetings(accountID string) []domain.Meeting {
	snapshot := s.derivation.Snapshot()
	if accountID == "" {
		return snapshot.Meetings
	}

	meetings := make([]domain.Meeting, 0)
	for _, meeting := range snapshot.Meetings {
		if meeting.AccountID == accountID {
			meetings = append(meetings, meeting)
		}
	}
	return meetings
}

func (s *service) CreateMeeting(meeting domain.Meeting) (*domain.Meeting, error) {
	if meeting.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar identificador da reunião")
		}
		meeting.ID = "m-" + id
	}

	s.snapshotMeetingMRR(&meeting)

	if err := s.meetingRepo.SaveOrUpdate(meeting); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar reunião")
	}

	s.refresh("meeting-create")

	return &meeting, nil
}

// snapshotMeetingMRR fotografa o MRR vigente do produto no momento da reunião.
// O gap é derivado do objetivo informado
func (s *service) snapshotMeetingMRR(meeting *domain.Meeting) {
	if meeting.MRRAtTime == 0 {
		meeting.MRRAtTime = s.currentProductMRR(meeting.AccountID, meeting.ProductID)
	}
	if meeting.MRRObjectiveAtTime > 0 {
		meeting.MRRGapAtTime = utils.RoundWithTwoDecimalPlace(meeting.MRRObjectiveAtTime - meeting.MRRAtTime)
	}
}

func (s *service) currentProductMRR(accountID, productID string) float64 {
	snapshot := s.derivation.Snapshot()
	for i := range snapshot.Accounts {
		if snapshot.Accounts[i].ID != accountID {
			continue
		}
		for _, prod := range snapshot.Accounts[i].Products {
			if productID == "" || prod.ID == productID {
				return prod.MRR
			}
		}
	}
	return 0
}

func (s *service) UpdateMeeting(meeting domain.Meeting) (*domain.Meeting, error) {
	existing, err := s.meetingRepo.GetMeetingByID(meeting.ID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar reunião")
	}
	if existing == nil {
		return nil, ErrMeetingNotFound
	}

	// Os campos fotografados permanecem congelados enquanto a reunião seguir no
	// mesmo produto. Reedição para outro produto refotografa o MRR vigente
	if meeting.ProductID == existing.ProductID {
		meeting.MRRAtTime = existing.MRRAtTime
		meeting.MRRObjectiveAtTime = existing.MRRObjectiveAtTime
		meeting.MRRGapAtTime = existing.MRRGapAtTime
	} else {
		meeting.MRRAtTime = 0
		s.snapshotMeetingMRR(&meeting)
	}

	if err := s.meetingRepo.SaveOrUpdate(meeting); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar reunião")
	}

	s.refresh("meeting-update")

	return &meeting, nil
}

func (s *service) DeleteMeeting(meetingID string) error {
	if err := s.meetingRepo.DeleteMeeting(meetingID); err != nil {
		return err
	}

	s.refresh("meeting-delete")

	return nil
}

func (s *service) ListSuccessPlans() []domain.SuccessPlan {
	return s.derivation.Snapshot().SuccessPlans
}

func (s *service) CreateSuccessPlan(plan domain.SuccessPlan) (*domain.SuccessPlan, error) {
	if plan.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar identificador do plano")
		}
		plan.ID = "sp-" + id
	}
	if plan.CreatedAt == "" {
		plan.CreatedAt = s.now().Format("2006-01-02")
	}
	if plan.Milestones == nil {
		plan.Milestones = []domain.Milestone{}
	}

	if err := s.planRepo.SaveOrUpdate(plan); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar plano de sucesso")
	}

	// Vincular o plano à conta, se informada
	if plan.AccountID != "" {
		account, err := s.accountRepo.GetAccountByID(plan.AccountID)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao consultar conta do plano")
		}
		if account != nil && account.SuccessPlanID != plan.ID {
			account.SuccessPlanID = plan.ID
			if err := s.accountRepo.SaveOrUpdate([]domain.Account{*account}); err != nil {
				return nil, errors.Wrap(err, "erro ao vincular plano à conta")
			}
		}
	}

	s.refresh("plan-create")

	return &plan, nil
}

func (s *service) UpdateSuccessPlan(plan domain.SuccessPlan) (*domain.SuccessPlan, error) {
	existing, err := s.planRepo.GetSuccessPlanByID(plan.ID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar plano de sucesso")
	}
	if existing == nil {
		return nil, ErrPlanNotFound
	}

	if plan.CreatedAt == "" {
		plan.CreatedAt = existing.CreatedAt
	}
	if plan.Milestones == nil {
		plan.Milestones = existing.Milestones
	}

	if err := s.planRepo.SaveOrUpdate(plan); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar plano de sucesso")
	}

	s.refresh("plan-update")

	return &plan, nil
}

func (s *service) ListSegments() ([]domain.AccountSegment, error) {
	return s.segmentRepo.ListSegments()
}

func (s *service) CreateSegment(segment domain.AccountSegment) (*domain.AccountSegment, error) {
	if segment.Name == "" {
		return nil, ErrMissingName
	}

	if segment.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar identificador do segmento")
		}
		segment.ID = "seg-" + id
	}

	if err := s.segmentRepo.SaveOrUpdate(segment); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar segmento")
	}

	return &segment, nil
}

func (s *service) DeleteSegment(segmentID string) error {
	return s.segmentRepo.DeleteSegment(segmentID)
}

func (s *service) ListPlaybooks() ([]domain.Playbook, error) {
	return s.playbookRepo.ListPlaybooks()
}

// ApplyPlaybook materializa os modelos de tarefa do playbook como atividades
// da conta
func (s *service) ApplyPlaybook(accountID, playbookID, owner string) ([]domain.Activity, error) {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar conta")
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	playbook, err := s.playbookRepo.GetPlaybookByID(playbookID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar playbook")
	}
	if playbook == nil {
		return nil, ErrPlaybookNotFound
	}

	activities, err := s.importer.ApplyPlaybook(*playbook, accountID, owner, s.now())
	if err != nil {
		return nil, err
	}

	account.Activities = append(account.Activities, activities...)

	if err := s.accountRepo.SaveOrUpdate([]domain.Account{*account}); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar atividades do playbook")
	}

	s.refresh("playbook-apply")

	return activities, nil
}

func (s *service) ImportAccountsCSV(raw string) (*importing.MergeResult, error) {
	incoming, err := importing.ParseAccountCSV(raw)
	if err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar contas")
	}

	result, err := s.importer.MergeAccounts(existing, incoming)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveOrUpdate(result.Accounts); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar contas importadas")
	}

	metrics.ImportedRecords.WithLabelValues("accounts").Add(float64(result.Created + result.Updated))

	s.refresh("import-accounts")

	return &result, nil
}

func (s *service) ImportFinancialRows(raw string) (*ImportSummary, error) {
	accounts, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar contas")
	}

	records, skipped, err := importing.ParseFinancialRows(raw, accounts)
	if err != nil {
		return nil, err
	}

	existing, err := s.financeRepo.ListFinancialRecords()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar razão financeiro")
	}

	merged := s.importer.UpsertFinancialRecords(existing, records)

	if err := s.financeRepo.SaveOrUpdate(merged); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar razão financeiro")
	}

	metrics.ImportedRecords.WithLabelValues("financials").Add(float64(len(records)))
	metrics.SkippedImportRows.WithLabelValues("financials").Add(float64(skipped))

	s.refresh("import-financials")

	return &ImportSummary{Imported: len(records), Skipped: skipped}, nil
}

func (s *service) ImportTicketRows(raw string) (*ImportSummary, error) {
	accounts, err := s.accountRepo.ListAccounts()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar contas")
	}

	records, skipped, err := importing.ParseTicketRows(raw, accounts, s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.ticketRepo.ListTicketRecords()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar razão de tickets")
	}

	merged := s.importer.UpsertTicketRecords(existing, records)

	if err := s.ticketRepo.SaveOrUpdate(merged); err != nil {
		return nil, errors.Wrap(err, "erro ao salvar razão de tickets")
	}

	metrics.ImportedRecords.WithLabelValues("tickets").Add(float64(len(records)))
	metrics.SkippedImportRows.WithLabelValues("tickets").Add(float64(skipped))

	s.refresh("import-tickets")

	return &ImportSummary{Imported: len(records), Skipped: skipped}, nil
}
