package scpi

import (
	"github.com/stretchr/testify/mock"
)

// MockCommander is a testify mock of Commander.
type MockCommander struct {
	mock.Mock
}

var _ Commander = (*MockCommander)(nil)

func NewMockCommander() *MockCommander {
	return &MockCommander{}
}

func (m *MockCommander) Exec(cmd string) (string, error) {
	args := m.Called(cmd)
	return args.String(0), args.Error(1)
}
