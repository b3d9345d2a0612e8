package domain

// VOCType classifica o tipo de feedback de Voice of Customer
type VOCType string

const (
	VOCTypeFeedbackPositive VOCType = "Feedback Positivo"
	VOCTypeComplaint        VOCType = "Reclamação"
	VOCTypeBug              VOCType = "Bug / Problema Técnico"
	VOCTypeFeatureRequest   VOCType = "Sugestão de Melhoria"
	VOCTypeOther            VOCType = "Outros"
)

type VOCUrgency string

const (
	VOCUrgencyLow      VOCUrgency = "Baixa"
	VOCUrgencyMedium   VOCUrgency = "Média"
	VOCUrgencyHigh     VOCUrgency = "Alta"
	VOCUrgencyCritical VOCUrgency = "Crítica"
)

type VOCStatus string

const (
	VOCStatusPending    VOCStatus = "Pendente"
	VOCStatusInProgress VOCStatus = "Em Análise"
	VOCStatusResolved   VOCStatus = "Resolvido"
	VOCStatusClosed     VOCStatus = "Arquivado"
)

// Meeting registra uma reunião com a conta. Os campos MRRAtTime,
// MRRObjectiveAtTime e MRRGapAtTime são fotografados na criação e congelados,
// salvo reedição da reunião para o mesmo produto
type Meeting struct {
	ID           string   `json:"id"`
	AccountID    string   `json:"accountId"`
	AccountName  string   `json:"accountName,omitempty"`
	ProductID    string   `json:"productId,omitempty"`
	ProductName  string   `json:"productName,omitempty"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	Summary      string   `json:"summary,omitempty"`
	Participants []string `json:"participants,omitempty"`

	VOCDetailed string     `json:"vocDetailed,omitempty"`
	VOCType     VOCType    `json:"vocType,omitempty"`
	VOCUrgency  VOCUrgency `json:"vocUrgency,omitempty"`
	VOCStatus   VOCStatus  `json:"vocStatus,omitempty"`

	MRRAtTime          float64 `json:"mrrAtTime"`
	MRRObjectiveAtTime float64 `json:"mrrObjectiveAtTime,omitempty"`
	MRRGapAtTime       float64 `json:"mrrGapAtTime,omitempty"`

	Risks        []string `json:"risks,omitempty"`
	NextActions  []string `json:"nextActions,omitempty"`
	VOCTags      []string `json:"vocTags,omitempty"`
	ActionsCount int      `json:"actionsCount,omitempty"`
	ReminderDays int      `json:"reminderDays,omitempty"`
}

// HasVOC indica se a reunião carrega um registro de Voice of Customer
func (m Meeting) HasVOC() bool {
	return m.VOCDetailed != ""
}
