package domain

// FinancialMovementType classifica o movimento de receita de um registro
type FinancialMovementType string

const (
	MovementNew          FinancialMovementType = "New"
	MovementExpansion    FinancialMovementType = "Expansion"
	MovementContraction  FinancialMovementType = "Contraction"
	MovementChurn        FinancialMovementType = "Churn"
	MovementRecurring    FinancialMovementType = "Recurring"
	MovementResurrection FinancialMovementType = "Resurrection"
)

// IsRiskMovement indica se o movimento representa perda ou redução de receita
func (t FinancialMovementType) IsRiskMovement() bool {
	return t == MovementChurn || t == MovementContraction
}

// FinancialRecord é uma entrada do razão financeiro por conta/produto.
// No caminho de importação vale no máximo um registro por
// (accountId, productId, date): duplicatas na tripla substituem o existente
type FinancialRecord struct {
	ID        string                `json:"id"`
	AccountID string                `json:"accountId"`
	ProductID string                `json:"productId"`
	Date      string                `json:"date"` // YYYY-MM-DD
	Amount    float64               `json:"amount"`
	Type      FinancialMovementType `json:"type"`
}
