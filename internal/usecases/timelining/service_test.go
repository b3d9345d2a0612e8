package timelining_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
)

func TestHistoryDate(t *testing.T) {
	reference := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		month     string
		reference time.Time
		expected  string
	}{
		{
			name:      "mês anterior ao de referência fica no ano corrente",
			month:     "Mar",
			reference: reference,
			expected:  "2026-03-15",
		},
		{
			name:      "mês igual ao de referência fica no ano corrente",
			month:     "Ago",
			reference: reference,
			expected:  "2026-08-15",
		},
		{
			name:      "mês à frente do de referência volta um ano",
			month:     "Dez",
			reference: reference,
			expected:  "2025-12-15",
		},
		{
			name:      "virada de ano com referência em janeiro",
			month:     "Fev",
			reference: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			expected:  "2025-02-15",
		},
		{
			name:      "janeiro com referência em dezembro fica no ano corrente",
			month:     "Jan",
			reference: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			expected:  "2025-01-15",
		},
		{
			name:      "mês desconhecido cai em janeiro",
			month:     "XYZ",
			reference: reference,
			expected:  "2026-01-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timelining.HistoryDate(tt.month, tt.reference))
		})
	}
}

func TestAggregate(t *testing.T) {
	reference := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	svc := timelining.NewService()

	account := domain.Account{
		ID:   "acc-1",
		Name: "Acme Corp",
		Products: []domain.Product{
			{
				ID:                  "prod-1",
				Name:                "Plataforma",
				DataInicioSetup:     "2026-01-10",
				DataGoLivePrevisto:  "2026-03-01",
				DataGoLiveRealizado: "2026-02-20",
				ScoreHistory: []domain.ScoreHistoryEntry{
					{Month: "Jun", Score: 80},
					{Month: "Jul", Score: 55},
				},
			},
		},
		Activities: []domain.Activity{
			{
				ID:        "a1",
				ProductID: "prod-1",
				Title:     "Revisar onboarding",
				Status:    domain.ActivityStatusCompleted,
				DueDate:   "2026-05-02",
				Urgency:   "Alta",
				Notes:     "notas da tarefa",
			},
		},
	}

	meetings := []domain.Meeting{
		{
			ID:           "m1",
			AccountID:    "acc-1",
			AccountName:  "Acme Corp",
			ProductName:  "Plataforma",
			Date:         "2026-04-10",
			Type:         "QBR",
			Summary:      "Revisão trimestral",
			Participants: []string{"Ana", "Bruno"},
			Risks:        []string{"renovação em aberto"},
			VOCDetailed:  "Cliente relatou lentidão recorrente no módulo de relatórios durante o fechamento do mês",
			VOCUrgency:   domain.VOCUrgencyHigh,
		},
	}

	plan := &domain.SuccessPlan{
		ID:        "sp-1",
		AccountID: "acc-1",
		Objective: "Dobrar adoção",
		CreatedAt: "2026-02-01",
		Milestones: []domain.Milestone{
			{ID: "ms-1", Title: "Treinamento concluído", DueDate: "2026-06-15", KPI: "90% usuários ativos"},
		},
	}

	t.Run("agrega todas as origens e ordena por data decrescente", func(t *testing.T) {
		events := svc.Aggregate(timelining.Input{
			Account:     account,
			Meetings:    meetings,
			SuccessPlan: plan,
			Reference:   reference,
		})

		// 1 reunião + 1 voc + 1 atividade + setup + golive + 2 scores + início de plano + 1 marco
		require.Len(t, events, 9)

		for i := 1; i < len(events); i++ {
			assert.GreaterOrEqual(t, events[i-1].Date, events[i].Date,
				"eventos devem estar em ordem decrescente")
		}

		byID := make(map[string]domain.TimelineEvent, len(events))
		for _, evt := range events {
			byID[evt.ID] = evt
		}

		meeting := byID["meet-m1"]
		assert.Equal(t, domain.EventMeeting, meeting.Type)
		assert.Equal(t, "Revisão trimestral", meeting.Title)
		assert.Equal(t, "Riscos: renovação em aberto", meeting.Description)
		assert.Equal(t, []string{"QBR", "Plataforma"}, meeting.Tags)
		assert.Equal(t, "2 participantes", meeting.Subtitle)
		assert.Equal(t, "m1", meeting.OriginalID)

		voc := byID["voc-m1"]
		assert.Equal(t, domain.EventVOC, voc.Type)
		assert.True(t, strings.HasPrefix(voc.Title, "VOC: "))
		assert.True(t, strings.HasSuffix(voc.Title, "..."))
		assert.Equal(t, []string{"Feedback", "Alta"}, voc.Tags)
		assert.Equal(t, "Status: Pendente", voc.Subtitle)

		activity := byID["act-a1"]
		assert.Equal(t, []string{"Concluído", "Alta", "Plataforma"}, activity.Tags)
		assert.Equal(t, "Completed • Geral • Sem dono", activity.Subtitle)

		goLive := byID["prod-golive-prod-1"]
		assert.Equal(t, "2026-02-20", goLive.Date, "go-live realizado prevalece sobre o previsto")
		assert.Equal(t, "Realizado", goLive.Subtitle)

		healthy := byID["hs-prod-1-0"]
		assert.Equal(t, "2026-06-15", healthy.Date)
		assert.Contains(t, healthy.Tags, "Saudável")

		risky := byID["hs-prod-1-1"]
		assert.Contains(t, risky.Tags, "Risco")

		planStart := byID["sp-start-sp-1"]
		assert.Equal(t, domain.EventSuccessPlanStart, planStart.Type)
		assert.Equal(t, `Objetivo: "Dobrar adoção"`, planStart.Description)
		assert.Equal(t, "1 milestones definidos", planStart.Subtitle)

		milestone := byID["milestone-ms-1"]
		assert.Equal(t, "Marco: Treinamento concluído", milestone.Title)
		assert.Equal(t, "KPI Alvo: 90% usuários ativos", milestone.Description)
	})

	t.Run("reunião sem resumo usa tipo e nome da conta como título", func(t *testing.T) {
		events := svc.Aggregate(timelining.Input{
			Account: account,
			Meetings: []domain.Meeting{
				{ID: "m2", Date: "2026-01-05", Type: "Check-in"},
			},
			Reference: reference,
		})

		var found bool
		for _, evt := range events {
			if evt.ID == "meet-m2" {
				found = true
				assert.Equal(t, "Check-in - Acme Corp", evt.Title)
				assert.Equal(t, []string{"Check-in", "Geral"}, evt.Tags)
			}
		}
		require.True(t, found)
	})

	t.Run("voc curto não recebe reticências", func(t *testing.T) {
		events := svc.Aggregate(timelining.Input{
			Account: domain.Account{ID: "acc-2", Name: "Beta"},
			Meetings: []domain.Meeting{
				{ID: "m3", Date: "2026-01-05", Type: "Call", VOCDetailed: "Elogio ao suporte"},
			},
			Reference: reference,
		})

		for _, evt := range events {
			if evt.ID == "voc-m3" {
				assert.Equal(t, "VOC: Elogio ao suporte", evt.Title)
			}
		}
	})

	t.Run("filtros removem categorias desativadas", func(t *testing.T) {
		filters := timelining.NewFilterSet()
		filters.Toggle(domain.EventMeeting)

		events := svc.Aggregate(timelining.Input{
			Account:     account,
			Meetings:    meetings,
			SuccessPlan: plan,
			Filters:     filters,
			Reference:   reference,
		})

		for _, evt := range events {
			assert.NotEqual(t, domain.EventMeeting, evt.Type)
		}
		// VOC vem da mesma reunião mas é uma categoria independente
		var hasVOC bool
		for _, evt := range events {
			if evt.Type == domain.EventVOC {
				hasVOC = true
			}
		}
		assert.True(t, hasVOC)
	})

	t.Run("filtro de health desativado remove score e produto juntos", func(t *testing.T) {
		filters := timelining.NewFilterSet()
		filters.Toggle(domain.EventHealthScore)

		events := svc.Aggregate(timelining.Input{
			Account:   account,
			Reference: reference,
		})
		_ = events

		filteredEvents := svc.Aggregate(timelining.Input{
			Account:   account,
			Filters:   filters,
			Reference: reference,
		})

		for _, evt := range filteredEvents {
			assert.NotEqual(t, domain.EventHealthScore, evt.Type)
			assert.NotEqual(t, domain.EventProduct, evt.Type)
		}
	})

	t.Run("empate de data preserva a ordem de geração", func(t *testing.T) {
		sameDay := []domain.Meeting{
			{ID: "m10", Date: "2026-03-03", Type: "Call", Summary: "primeira"},
			{ID: "m11", Date: "2026-03-03", Type: "Call", Summary: "segunda"},
		}

		events := svc.Aggregate(timelining.Input{
			Account:   domain.Account{ID: "acc-3", Name: "Gama"},
			Meetings:  sameDay,
			Reference: reference,
		})

		require.Len(t, events, 2)
		assert.Equal(t, "meet-m10", events[0].ID)
		assert.Equal(t, "meet-m11", events[1].ID)
	})

	t.Run("entrada vazia devolve fatia vazia sem erro", func(t *testing.T) {
		events := svc.Aggregate(timelining.Input{
			Account:   domain.Account{ID: "acc-4", Name: "Delta"},
			Reference: reference,
		})

		assert.Empty(t, events)
		assert.NotNil(t, events)
	})
}
