package realtime

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockClient) Disconnect() {
	m.Called()
}

func (m *mockClient) Send(eventType EventType, data any, opts ...SendOption) string {
	args := m.Called(eventType, data)
	return args.String(0)
}

func (m *mockClient) On(eventType EventType, handler Handler) {
	m.Called(eventType, handler)
}

func (m *mockClient) Off(eventType EventType, handler Handler) {
	m.Called(eventType, handler)
}

func (m *mockClient) State() ConnState {
	args := m.Called()
	return args.Get(0).(ConnState)
}

func (m *mockClient) QueuedCount() int {
	args := m.Called()
	return args.Int(0)
}

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) SaveMessage(
	ctx context.Context,
	athleteID, mealID string,
	msg ChatMessage,
) error {
	args := m.Called(ctx, athleteID, mealID, msg)
	return args.Error(0)
}

func (m *mockMessageStore) SaveApproval(
	ctx context.Context,
	athleteID, mealID string,
	approved bool,
) error {
	args := m.Called(ctx, athleteID, mealID, approved)
	return args.Error(0)
}
