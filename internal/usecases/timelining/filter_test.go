package timelining_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
)

func TestFilterSet(t *testing.T) {
	t.Run("conjunto novo ativa todas as categorias", func(t *testing.T) {
		fs := timelining.NewFilterSet()
		for _, eventType := range domain.AllTimelineEventTypes {
			assert.True(t, fs.Enabled(eventType))
		}
	})

	t.Run("toggle desativa e reativa uma categoria simples", func(t *testing.T) {
		fs := timelining.NewFilterSet()

		fs.Toggle(domain.EventMeeting)
		assert.False(t, fs.Enabled(domain.EventMeeting))
		assert.True(t, fs.Enabled(domain.EventActivity))

		fs.Toggle(domain.EventMeeting)
		assert.True(t, fs.Enabled(domain.EventMeeting))
	})

	t.Run("health score e produto alternam sempre em bloco", func(t *testing.T) {
		fs := timelining.NewFilterSet()

		fs.Toggle(domain.EventHealthScore)
		assert.False(t, fs.Enabled(domain.EventHealthScore))
		assert.False(t, fs.Enabled(domain.EventProduct))

		fs.Toggle(domain.EventProduct)
		assert.True(t, fs.Enabled(domain.EventHealthScore))
		assert.True(t, fs.Enabled(domain.EventProduct))
	})

	t.Run("grupo parcialmente ativo volta a ficar todo ativo", func(t *testing.T) {
		fs := timelining.FilterSet{
			domain.EventHealthScore: true,
			domain.EventProduct:     false,
		}

		fs.Toggle(domain.EventHealthScore)
		assert.True(t, fs.Enabled(domain.EventHealthScore))
		assert.True(t, fs.Enabled(domain.EventProduct))
	})

	t.Run("reset reativa tudo", func(t *testing.T) {
		fs := timelining.NewFilterSet()
		fs.Toggle(domain.EventVOC)
		fs.Toggle(domain.EventHealthScore)

		fs.Reset()
		for _, eventType := range domain.AllTimelineEventTypes {
			assert.True(t, fs.Enabled(eventType))
		}
	})
}

func TestParseFilterSet(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		enabled  []domain.TimelineEventType
		disabled []domain.TimelineEventType
	}{
		{
			name:    "entrada vazia ativa tudo",
			raw:     "",
			enabled: domain.AllTimelineEventTypes,
		},
		{
			name:     "lista explícita ativa só o informado",
			raw:      "MEETING,VOC",
			enabled:  []domain.TimelineEventType{domain.EventMeeting, domain.EventVOC},
			disabled: []domain.TimelineEventType{domain.EventActivity, domain.EventProduct},
		},
		{
			name:     "tipos desconhecidos são ignorados",
			raw:      "MEETING,BOGUS",
			enabled:  []domain.TimelineEventType{domain.EventMeeting},
			disabled: []domain.TimelineEventType{domain.EventVOC},
		},
		{
			name:    "health score arrasta produto junto",
			raw:     "HEALTH_SCORE",
			enabled: []domain.TimelineEventType{domain.EventHealthScore, domain.EventProduct},
		},
		{
			name:    "produto arrasta health score junto",
			raw:     "product",
			enabled: []domain.TimelineEventType{domain.EventHealthScore, domain.EventProduct},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := timelining.ParseFilterSet(tt.raw)
			for _, eventType := range tt.enabled {
				assert.True(t, fs.Enabled(eventType), "esperava %s ativo", eventType)
			}
			for _, eventType := range tt.disabled {
				assert.False(t, fs.Enabled(eventType), "esperava %s inativo", eventType)
			}
		})
	}
}
