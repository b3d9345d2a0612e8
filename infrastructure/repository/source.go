package repository

import (
	"context"

	"github.com/vfg2006/customer-success-api/internal/domain"
)

// DerivationSource agrega os repositórios canônicos na interface de fonte do
// motor de derivação
type DerivationSource struct {
	Accounts     AccountRepository
	Meetings     MeetingRepository
	SuccessPlans SuccessPlanRepository
	Financials   FinancialRepository
	Tickets      TicketRepository
}

func (s *DerivationSource) ListAccounts(_ context.Context) ([]domain.Account, error) {
	return s.Accounts.ListAccounts()
}

func (s *DerivationSource) ListMeetings(_ context.Context) ([]domain.Meeting, error) {
	return s.Meetings.ListMeetings()
}

func (s *DerivationSource) ListSuccessPlans(_ context.Context) ([]domain.SuccessPlan, error) {
	return s.SuccessPlans.ListSuccessPlans()
}

func (s *DerivationSource) ListFinancialRecords(_ context.Context) ([]domain.FinancialRecord, error) {
	return s.Financials.ListFinancialRecords()
}

func (s *DerivationSource) ListTicketRecords(_ context.Context) ([]domain.TicketRecord, error) {
	return s.Tickets.ListTicketRecords()
}
