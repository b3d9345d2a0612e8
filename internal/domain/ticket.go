package domain

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusPending  TicketStatus = "Pending"
	TicketStatusResolved TicketStatus = "Resolved"
	TicketStatusClosed   TicketStatus = "Closed"
)

type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// TicketRecord é uma entrada do razão de tickets sincronizado de sistemas
// externos (Zendesk, Jira). ExternalID é a chave natural no upsert de
// importação
type TicketRecord struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"externalId"`
	AccountID  string         `json:"accountId"`
	Subject    string         `json:"subject"`
	Type       string         `json:"type,omitempty"`
	Status     TicketStatus   `json:"status"`
	Priority   TicketPriority `json:"priority"`
	OpenedAt   string         `json:"openedAt"` // YYYY-MM-DD
	ClosedAt   string         `json:"closedAt,omitempty"`
}

// IsOpen indica se o ticket ainda conta como pendência para a conta
func (t TicketRecord) IsOpen() bool {
	return t.Status == TicketStatusOpen || t.Status == TicketStatusPending
}

// IsUnresolvedCritical indica se o ticket gera alerta de risco
func (t TicketRecord) IsUnresolvedCritical() bool {
	return t.Priority == TicketPriorityCritical &&
		t.Status != TicketStatusClosed && t.Status != TicketStatusResolved
}
