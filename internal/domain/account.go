package domain

// HealthStatus classifica a saúde de um produto contratado
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "Healthy"
	HealthStatusAtRisk   HealthStatus = "At Risk"
	HealthStatusCritical HealthStatus = "Critical"
)

// MaturityStage representa o estágio de maturidade do produto na conta
type MaturityStage string

const (
	MaturityGrowth1 MaturityStage = "Growth 1"
	MaturityGrowth2 MaturityStage = "Growth 2"
	MaturityGrowth3 MaturityStage = "Growth 3"
	MaturityGrowth4 MaturityStage = "Growth 4"
	MaturityGrowth5 MaturityStage = "Growth 5"
)

type ProductFeature struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type RadarDimension struct {
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
}

// ScoreHistoryEntry é um ponto histórico de health score. A origem dos dados
// registra apenas o nome do mês ("Jan".."Dez"), sem ano — o ano é inferido
// pela timeline (ver timelining.HistoryDate)
type ScoreHistoryEntry struct {
	Month string  `json:"month"`
	Score float64 `json:"score"`
}

// Product é um produto contratado por uma conta. Os campos MRR, OpenTickets e
// CriticalTickets são cache derivado do razão financeiro e de tickets,
// mantidos pelo reconciling.Service
type Product struct {
	ID                      string              `json:"id"`
	Name                    string              `json:"name"`
	Description             string              `json:"description,omitempty"`
	MRR                     float64             `json:"mrr"`
	MRRObjetivo             float64             `json:"mrrObjetivo"`
	DataPrevistaMRRObjetivo string              `json:"dataPrevistaMRRObjetivo,omitempty"`
	DataAtingimentoMRR      string              `json:"dataAtingimentoMRR,omitempty"`
	DataInicioSetup         string              `json:"dataInicioSetup,omitempty"`
	DataGoLivePrevisto      string              `json:"dataGoLivePrevisto,omitempty"`
	DataGoLiveRealizado     string              `json:"dataGoLiveRealizado,omitempty"`
	HealthScore             float64             `json:"healthScore"`
	HealthStatus            HealthStatus        `json:"healthStatus,omitempty"`
	Maturity                MaturityStage       `json:"maturity,omitempty"`
	AdoptionRate            float64             `json:"adoptionRate"`
	OpenTickets             int                 `json:"openTickets"`
	CriticalTickets         int                 `json:"criticalTickets"`
	FeaturesTotal           int                 `json:"featuresTotal"`
	FeaturesActive          int                 `json:"featuresActive"`
	FeaturesList            []ProductFeature    `json:"featuresList,omitempty"`
	RadarDimensions         []RadarDimension    `json:"radarDimensions,omitempty"`
	ScoreHistory            []ScoreHistoryEntry `json:"scoreHistory,omitempty"`
}

// ContactRole indica o papel do contato dentro da conta
type ContactRole string

const (
	ContactRoleDecisionMaker ContactRole = "Decisor Econômico"
	ContactRoleChampion      ContactRole = "Champion (Defensor)"
	ContactRoleInfluencer    ContactRole = "Influenciador"
	ContactRoleUser          ContactRole = "Usuário Chave"
	ContactRoleBlocker       ContactRole = "Detrator / Bloqueador"
)

type Contact struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Title               string      `json:"title,omitempty"`
	Email               string      `json:"email,omitempty"`
	Phone               string      `json:"phone,omitempty"`
	Role                ContactRole `json:"role,omitempty"`
	Sentiment           string      `json:"sentiment,omitempty"`
	InfluenceLevel      string      `json:"influenceLevel,omitempty"`
	LastInteractionDate string      `json:"lastInteractionDate,omitempty"`
	Notes               string      `json:"notes,omitempty"`
}

type AccountSegment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Account é a entidade raiz do CRM. Products, Activities e Contacts nunca são
// nulos em contas persistidas pelo sistema (importação garante fatias vazias)
type Account struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CNPJ          string     `json:"cnpj,omitempty"`
	Segment       string     `json:"segment,omitempty"`
	SegmentID     string     `json:"segmentId,omitempty"`
	Products      []Product  `json:"products"`
	Activities    []Activity `json:"activities"`
	Contacts      []Contact  `json:"contacts,omitempty"`
	VOCPendente   int        `json:"vocPendente"`
	SuccessPlanID string     `json:"successPlanId,omitempty"`
}

// CloneShallowWithProducts devolve uma cópia da conta com a fatia de produtos
// substituída. Usado pelo motor de reconciliação para copy-on-write
func (a Account) CloneShallowWithProducts(products []Product) Account {
	clone := a
	clone.Products = products
	return clone
}
