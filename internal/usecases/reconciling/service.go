package reconciling

import (
	"github.com/vfg2006/customer-success-api/internal/domain"
)

// Input reúne o estado corrente das contas e os razões que alimentam a
// reconciliação
type Input struct {
	Accounts         []domain.Account
	FinancialRecords []domain.FinancialRecord
	TicketRecords    []domain.TicketRecord
}

// Result carrega a fatia reconciliada e a sinalização de mudança estrutural.
// Contas sem alteração são devolvidas no mesmo valor de entrada
type Result struct {
	Accounts []domain.Account
	Changed  bool
}

type Service interface {
	Reconcile(in Input) Result
}

type service struct{}

func NewService() Service {
	return &service{}
}

// Reconcile projeta os razões financeiro e de tickets sobre o cache derivado
// dos produtos. A operação é idempotente e copy-on-write: nenhuma conta ou
// produto de entrada é mutado, e rodar duas vezes sobre o mesmo estado produz
// o mesmo resultado sem sinalizar mudança na segunda passada
func (s *service) Reconcile(in Input) Result {
	latestAmounts := latestAmountByProduct(in.FinancialRecords)
	openCounts, criticalCounts := ticketCountsByAccount(in.TicketRecords)

	out := make([]domain.Account, len(in.Accounts))
	anyChanged := false

	for i, acc := range in.Accounts {
		reconciled, changed := reconcileAccount(acc, latestAmounts, openCounts[acc.ID], criticalCounts[acc.ID])
		out[i] = reconciled
		if changed {
			anyChanged = true
		}
	}

	return Result{Accounts: out, Changed: anyChanged}
}

func reconcileAccount(acc domain.Account, latestAmounts map[string]float64, openTickets, criticalTickets int) (domain.Account, bool) {
	changed := false
	products := acc.Products

	for i, prod := range acc.Products {
		amount, ok := latestAmounts[prod.ID]
		if !ok || amount == prod.MRR {
			continue
		}
		if !changed {
			products = cloneProducts(acc.Products)
			changed = true
		}
		products[i].MRR = amount
	}

	// Os contadores de tickets são agregados por conta mas gravados apenas no
	// primeiro produto. Comportamento herdado do modelo de dados original e
	// mantido para compatibilidade com os consumidores existentes
	if len(products) > 0 {
		p0 := products[0]
		if p0.OpenTickets != openTickets || p0.CriticalTickets != criticalTickets {
			if !changed {
				products = cloneProducts(acc.Products)
				changed = true
			}
			products[0].OpenTickets = openTickets
			products[0].CriticalTickets = criticalTickets
		}
	}

	if !changed {
		return acc, false
	}

	return acc.CloneShallowWithProducts(products), true
}

// latestAmountByProduct resolve o MRR vigente de cada produto: vale o registro
// de data mais recente. Empates de data mantêm o primeiro registro da entrada
func latestAmountByProduct(records []domain.FinancialRecord) map[string]float64 {
	type candidate struct {
		date   string
		amount float64
	}

	best := make(map[string]candidate)
	for _, r := range records {
		cur, ok := best[r.ProductID]
		if !ok || r.Date > cur.date {
			best[r.ProductID] = candidate{date: r.Date, amount: r.Amount}
		}
	}

	amounts := make(map[string]float64, len(best))
	for productID, c := range best {
		amounts[productID] = c.amount
	}
	return amounts
}

func ticketCountsByAccount(tickets []domain.TicketRecord) (open, critical map[string]int) {
	open = make(map[string]int)
	critical = make(map[string]int)

	for _, t := range tickets {
		if !t.IsOpen() {
			continue
		}
		open[t.AccountID]++
		if t.Priority == domain.TicketPriorityCritical {
			critical[t.AccountID]++
		}
	}

	return open, critical
}

func cloneProducts(products []domain.Product) []domain.Product {
	clone := make([]domain.Product, len(products))
	copy(clone, products)
	return clone
}
