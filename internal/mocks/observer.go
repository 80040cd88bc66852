package mocks

import "github.com/stretchr/testify/mock"

// TestifyMockObserver is a testify mock of service.LifecycleObserver.
type TestifyMockObserver struct {
	mock.Mock
}

// ObserveLifecycle records the call.
func (m *TestifyMockObserver) ObserveLifecycle(event, outcome string) {
	m.Called(event, outcome)
}
