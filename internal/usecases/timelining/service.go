package timelining

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/customer-success-api/internal/domain"
)

const vocTitleLimit = 60

// monthNumbers traduz as abreviações pt-BR usadas no histórico de score
var monthNumbers = map[string]int{
	"Jan": 1, "Fev": 2, "Mar": 3, "Abr": 4, "Mai": 5, "Jun": 6,
	"Jul": 7, "Ago": 8, "Set": 9, "Out": 10, "Nov": 11, "Dez": 12,
}

// Input reúne tudo que a agregação precisa. Reference ancora a inferência de
// ano do histórico de score, mantendo a função determinística
type Input struct {
	Account     domain.Account
	Meetings    []domain.Meeting
	SuccessPlan *domain.SuccessPlan
	Filters     FilterSet
	Reference   time.Time
}

type Service interface {
	Aggregate(in Input) []domain.TimelineEvent
}

type service struct{}

func NewService() Service {
	return &service{}
}

// Aggregate monta a linha do tempo unificada da conta. A fatia devolvida é
// sempre reconstruída do zero, nunca é persistida nem mutada incrementalmente
func (s *service) Aggregate(in Input) []domain.TimelineEvent {
	filters := in.Filters
	if filters == nil {
		filters = NewFilterSet()
	}

	events := make([]domain.TimelineEvent, 0,
		len(in.Meetings)*2+len(in.Account.Activities)+len(in.Account.Products)*3)

	events = append(events, meetingEvents(in.Account, in.Meetings)...)
	events = append(events, activityEvents(in.Account)...)
	events = append(events, productEvents(in.Account.Products, in.Reference)...)
	events = append(events, planEvents(in.SuccessPlan)...)

	filtered := events[:0]
	for _, evt := range events {
		if filters.Enabled(evt.Type) {
			filtered = append(filtered, evt)
		}
	}

	// Ordenação estável: empates de data preservam a ordem de geração
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date > filtered[j].Date
	})

	return filtered
}

func meetingEvents(account domain.Account, meetings []domain.Meeting) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, len(meetings)*2)

	for _, m := range meetings {
		title := m.Summary
		if title == "" {
			accountName := m.AccountName
			if accountName == "" {
				accountName = account.Name
			}
			title = fmt.Sprintf("%s - %s", m.Type, accountName)
		}

		productTag := m.ProductName
		if productTag == "" {
			productTag = "Geral"
		}

		var description string
		if len(m.Risks) > 0 {
			description = "Riscos: " + strings.Join(m.Risks, ", ")
		}

		events = append(events, domain.TimelineEvent{
			ID:          "meet-" + m.ID,
			OriginalID:  m.ID,
			Date:        m.Date,
			Type:        domain.EventMeeting,
			Title:       title,
			Description: description,
			Tags:        []string{m.Type, productTag},
			Subtitle:    fmt.Sprintf("%d participantes", len(m.Participants)),
		})

		if m.HasVOC() {
			events = append(events, vocEvent(m))
		}
	}

	return events
}

func vocEvent(m domain.Meeting) domain.TimelineEvent {
	vocType := string(m.VOCType)
	if vocType == "" {
		vocType = "Feedback"
	}
	urgency := string(m.VOCUrgency)
	if urgency == "" {
		urgency = string(domain.VOCUrgencyMedium)
	}
	status := string(m.VOCStatus)
	if status == "" {
		status = string(domain.VOCStatusPending)
	}

	title := m.VOCDetailed
	if runes := []rune(title); len(runes) > vocTitleLimit {
		title = string(runes[:vocTitleLimit]) + "..."
	}

	return domain.TimelineEvent{
		ID:          "voc-" + m.ID,
		OriginalID:  m.ID,
		Date:        m.Date,
		Type:        domain.EventVOC,
		Title:       "VOC: " + title,
		Description: m.VOCDetailed,
		Tags:        []string{vocType, urgency},
		Subtitle:    "Status: " + status,
	}
}

func activityEvents(account domain.Account) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, len(account.Activities))

	for _, a := range account.Activities {
		var productName string
		for _, p := range account.Products {
			if p.ID == a.ProductID {
				productName = p.Name
				break
			}
		}

		statusTag := "Pendente"
		if a.Status == domain.ActivityStatusCompleted {
			statusTag = "Concluído"
		}

		tags := []string{statusTag}
		if a.Urgency != "" {
			tags = append(tags, a.Urgency)
		}
		if productName != "" {
			tags = append(tags, productName)
		}

		status := string(a.Status)
		if status == "" {
			status = "Sem status"
		}
		category := a.Category
		if category == "" {
			category = "Geral"
		}
		owner := a.Owner
		if owner == "" {
			owner = "Sem dono"
		}

		events = append(events, domain.TimelineEvent{
			ID:          "act-" + a.ID,
			OriginalID:  a.ID,
			Date:        a.DueDate,
			Type:        domain.EventActivity,
			Title:       a.Title,
			Description: a.Notes,
			Tags:        tags,
			Subtitle:    fmt.Sprintf("%s • %s • %s", status, category, owner),
		})
	}

	return events
}

func productEvents(products []domain.Product, reference time.Time) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, len(products)*3)

	for _, p := range products {
		if p.DataInicioSetup != "" {
			events = append(events, domain.TimelineEvent{
				ID:          "prod-setup-" + p.ID,
				OriginalID:  p.ID,
				Date:        p.DataInicioSetup,
				Type:        domain.EventProduct,
				Title:       "Início de Setup: " + p.Name,
				Description: "Início oficial do processo de implantação.",
				Tags:        []string{"Setup", p.Name},
				Subtitle:    "Fase de Ativação",
			})
		}

		// Go-live realizado prevalece sobre o previsto
		goLive := p.DataGoLiveRealizado
		description := "Produto entrou em produção com sucesso."
		subtitle := "Realizado"
		if goLive == "" {
			goLive = p.DataGoLivePrevisto
			description = "Previsão de entrada em produção."
			subtitle = "Previsto"
		}
		if goLive != "" {
			events = append(events, domain.TimelineEvent{
				ID:          "prod-golive-" + p.ID,
				OriginalID:  p.ID,
				Date:        goLive,
				Type:        domain.EventProduct,
				Title:       "Go-Live: " + p.Name,
				Description: description,
				Tags:        []string{"Go-Live", p.Name},
				Subtitle:    subtitle,
			})
		}

		for idx, hist := range p.ScoreHistory {
			score := strconv.FormatFloat(hist.Score, 'f', -1, 64)
			healthTag := "Risco"
			if hist.Score >= 70 {
				healthTag = "Saudável"
			}

			events = append(events, domain.TimelineEvent{
				ID:          fmt.Sprintf("hs-%s-%d", p.ID, idx),
				OriginalID:  p.ID,
				Date:        HistoryDate(hist.Month, reference),
				Type:        domain.EventHealthScore,
				Title:       "Health Score: " + score,
				Description: "Registro histórico de saúde do produto.",
				Tags:        []string{p.Name, healthTag},
				Subtitle:    fmt.Sprintf("Score %s/100", score),
			})
		}
	}

	return events
}

func planEvents(plan *domain.SuccessPlan) []domain.TimelineEvent {
	if plan == nil {
		return nil
	}

	events := make([]domain.TimelineEvent, 0, len(plan.Milestones)+1)

	if plan.CreatedAt != "" {
		objective := plan.Objective
		if objective == "" {
			objective = "Não definido"
		}
		status := plan.Status
		if status == "" {
			status = "Ativo"
		}

		events = append(events, domain.TimelineEvent{
			ID:          "sp-start-" + plan.ID,
			OriginalID:  plan.ID,
			Date:        plan.CreatedAt,
			Type:        domain.EventSuccessPlanStart,
			Title:       "Plano de Sucesso Iniciado",
			Description: fmt.Sprintf("Objetivo: %q", objective),
			Tags:        []string{"Estratégia", status},
			Subtitle:    fmt.Sprintf("%d milestones definidos", len(plan.Milestones)),
		})
	}

	for _, milestone := range plan.Milestones {
		var description string
		if milestone.KPI != "" {
			description = "KPI Alvo: " + milestone.KPI
		}
		statusTag := milestone.Status
		if statusTag == "" {
			statusTag = "Pendente"
		}
		responsible := milestone.Responsible
		if responsible == "" {
			responsible = "Sem dono"
		}

		events = append(events, domain.TimelineEvent{
			ID:          "milestone-" + milestone.ID,
			OriginalID:  milestone.ID,
			Date:        milestone.DueDate,
			Type:        domain.EventMilestone,
			Title:       "Marco: " + milestone.Title,
			Description: description,
			Tags:        []string{statusTag},
			Subtitle:    "Responsável: " + responsible,
		})
	}

	return events
}

// HistoryDate converte o nome do mês de um ponto de score em uma data completa.
// A origem não registra ano: meses à frente do mês de referência pertencem ao
// ano anterior, os demais ao ano corrente. O dia é fixado em 15
func HistoryDate(month string, reference time.Time) string {
	m, ok := monthNumbers[month]
	if !ok {
		m = 1
	}

	year := reference.Year()
	if m > int(reference.Month()) {
		year--
	}

	return fmt.Sprintf("%04d-%02d-15", year, m)
}
