package factory

import (
	"time"

	"github.com/pveiga/digitduel/internal/dependencies/mocks"
	"github.com/pveiga/digitduel/internal/services/registry"
	"github.com/pveiga/digitduel/internal/storage/memory"
	"github.com/pveiga/digitduel/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		registry.DefaultSweepInterval,
		registry.DefaultIdleTimeout,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
