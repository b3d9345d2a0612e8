package domain

// ActivityStatus representa o estado de execução de uma atividade
type ActivityStatus string

const (
	ActivityStatusPending    ActivityStatus = "Pending"
	ActivityStatusInProgress ActivityStatus = "In Progress"
	ActivityStatusCompleted  ActivityStatus = "Completed"
)

type Activity struct {
	ID        string         `json:"id"`
	AccountID string         `json:"accountId,omitempty"`
	ProductID string         `json:"productId,omitempty"`
	Title     string         `json:"title"`
	Category  string         `json:"category,omitempty"`
	Status    ActivityStatus `json:"status"`
	DueDate   string         `json:"dueDate"`
	Urgency   string         `json:"urgency,omitempty"`
	Owner     string         `json:"owner,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	AlertDays int            `json:"alertDays,omitempty"`
}

// PlaybookTaskTemplate é o modelo de atividade gerada ao aplicar um playbook
type PlaybookTaskTemplate struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Urgency       string `json:"urgency"`
	DaysDue       int    `json:"daysDue"`
	NotesTemplate string `json:"notesTemplate,omitempty"`
}

type Playbook struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Trigger     string                 `json:"trigger,omitempty"`
	Tasks       []PlaybookTaskTemplate `json:"tasks"`
}
