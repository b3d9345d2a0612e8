package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
)

type fakeDerivation struct {
	dirty    bool
	refreshs int
	triggers []string
}

func (f *fakeDerivation) Refresh(_ context.Context, trigger string) error {
	f.refreshs++
	f.triggers = append(f.triggers, trigger)
	f.dirty = false
	return nil
}

func (f *fakeDerivation) Invalidate() { f.dirty = true }
func (f *fakeDerivation) Dirty() bool { return f.dirty }

func (f *fakeDerivation) Snapshot() deriving.Snapshot { return deriving.Snapshot{} }

func (f *fakeDerivation) Timeline(string, timelining.FilterSet) ([]domain.TimelineEvent, error) {
	return nil, nil
}

func (f *fakeDerivation) Notifications() []domain.Notification { return nil }

func newSyncConfig(enabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.DerivationSync.CronSchedule = "*/10 * * * *"
	cfg.DerivationSync.Enabled = enabled
	return cfg
}

func TestRunDerivation(t *testing.T) {
	ctx := context.Background()

	t.Run("ciclo limpo não recomputa", func(t *testing.T) {
		derivation := &fakeDerivation{dirty: false}
		svc := NewDerivationSyncService(derivation, newSyncConfig(true))

		require.NoError(t, svc.RunDerivation(ctx))
		assert.Equal(t, 0, derivation.refreshs)
	})

	t.Run("ciclo sujo recomputa com gatilho de cron", func(t *testing.T) {
		derivation := &fakeDerivation{dirty: true}
		svc := NewDerivationSyncService(derivation, newSyncConfig(true))

		require.NoError(t, svc.RunDerivation(ctx))
		require.Equal(t, 1, derivation.refreshs)
		assert.Equal(t, []string{"cron"}, derivation.triggers)
	})

	t.Run("segundo ciclo após refresh volta a ser ignorado", func(t *testing.T) {
		derivation := &fakeDerivation{dirty: true}
		svc := NewDerivationSyncService(derivation, newSyncConfig(true))

		require.NoError(t, svc.RunDerivation(ctx))
		require.NoError(t, svc.RunDerivation(ctx))
		assert.Equal(t, 1, derivation.refreshs)
	})
}

func TestDerivationSyncStart(t *testing.T) {
	t.Run("desabilitado por configuração não agenda nada", func(t *testing.T) {
		derivation := &fakeDerivation{}
		svc := NewDerivationSyncService(derivation, newSyncConfig(false))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, svc.Start(ctx))
		assert.Equal(t, 0, derivation.refreshs)
	})
}

func TestDerivationSyncGetStatus(t *testing.T) {
	svc := NewDerivationSyncService(&fakeDerivation{}, newSyncConfig(true))

	status := svc.GetStatus()
	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "*/10 * * * *", status["sync_cron"])
}
