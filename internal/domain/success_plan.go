package domain

type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate"`
	Responsible string `json:"responsible,omitempty"`
	KPI         string `json:"kpi,omitempty"`
}

// SuccessPlan é o plano de sucesso da conta. CreatedAt alimenta o evento de
// início de plano na timeline
type SuccessPlan struct {
	ID         string      `json:"id"`
	AccountID  string      `json:"accountId"`
	Level      string      `json:"level,omitempty"`
	Objective  string      `json:"objective,omitempty"`
	Status     string      `json:"status,omitempty"`
	Progress   float64     `json:"progress"`
	CreatedAt  string      `json:"createdAt,omitempty"`
	Milestones []Milestone `json:"milestones"`
}
