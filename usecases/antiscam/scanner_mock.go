package antiscam

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockScanner is a mock implementation of the ThreatScanner interface
type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) CheckURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}
