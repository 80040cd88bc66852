package mocks

import (
	"context"

	"github.com/phrazzld/accounts-api/internal/store"
)

// MockTxRunner runs the unit of work directly with a nil transaction. The
// in-memory stores ignore the transaction handle.
type MockTxRunner struct {
	RunInTxFn func(ctx context.Context, fn store.TxFn) error
	Calls     int
}

// NewMockTxRunner creates a pass-through runner.
func NewMockTxRunner() *MockTxRunner {
	return &MockTxRunner{}
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements store.TxRunner.
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}
