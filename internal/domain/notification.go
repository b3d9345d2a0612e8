package domain

import "time"

type NotificationType string

const (
	NotificationRisk        NotificationType = "Risk"
	NotificationOpportunity NotificationType = "Opportunity"
	NotificationTask        NotificationType = "Task"
	NotificationSystem      NotificationType = "System"
)

// Notification é uma visão derivada calculada sobre tickets, financeiro e
// reuniões. LinkTo é o identificador de aba usado pela interface para navegar
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	LinkTo    string           `json:"linkTo,omitempty"`
}
