package socket

import (
	"context"

	"github.com/Marpace/drawing-app-backend/game"
	"github.com/stretchr/testify/mock"
)

// --- Dispatcher ---

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, env game.ClientEnvelope) {
	m.Called(ctx, env)
}

func (m *MockDispatcher) Disconnect(ctx context.Context, connId string) {
	m.Called(ctx, connId)
}

func (m *MockDispatcher) ValidateCode(ctx context.Context, code string) (game.ValidateCodeResponse, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(game.ValidateCodeResponse), args.Error(1)
}
