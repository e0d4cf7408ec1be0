package syncjob

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorecommerce/catalog-backend/internal/catalog"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

type stubCatalog struct {
	catalog.Service
	adoptions int
}

func (s *stubCatalog) AdoptStorefrontProducts(context.Context) (*catalog.AdoptionReport, error) {
	s.adoptions++
	return &catalog.AdoptionReport{Processed: 3, Pages: 1}, nil
}

type stubLock struct {
	acquired bool
	releases int
}

func (l *stubLock) Acquire(context.Context) (bool, error) { return l.acquired, nil }
func (l *stubLock) Release(context.Context) error         { l.releases++; return nil }

func newTestRunner(t *testing.T, svc catalog.Service, lock Lock) *Runner {
	t.Helper()
	runner, err := NewRunner(RunnerParams{
		Logger:  logger.New(logger.Options{Output: io.Discard}),
		Catalog: svc,
		Lock:    lock,
	})
	require.NoError(t, err)
	return runner
}

func TestRunCycleAdoptsUnderLock(t *testing.T) {
	svc := &stubCatalog{}
	lock := &stubLock{acquired: true}

	runner := newTestRunner(t, svc, lock)
	require.NoError(t, runner.runCycle(context.Background()))

	assert.Equal(t, 1, svc.adoptions)
	assert.Equal(t, 1, lock.releases)
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	svc := &stubCatalog{}
	lock := &stubLock{acquired: false}

	runner := newTestRunner(t, svc, lock)
	require.NoError(t, runner.runCycle(context.Background()))

	assert.Equal(t, 0, svc.adoptions)
	assert.Equal(t, 0, lock.releases)
}

func TestNewRunnerValidation(t *testing.T) {
	logg := logger.New(logger.Options{Output: io.Discard})

	_, err := NewRunner(RunnerParams{Catalog: &stubCatalog{}, Lock: &stubLock{}})
	assert.Error(t, err)

	_, err = NewRunner(RunnerParams{Logger: logg, Lock: &stubLock{}})
	assert.Error(t, err)

	_, err = NewRunner(RunnerParams{Logger: logg, Catalog: &stubCatalog{}})
	assert.Error(t, err)
}
