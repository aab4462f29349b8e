package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

var _ deck.Service = (*MockDeckService)(nil)

// MockDeckService is a testify mock of deck.Service.
type MockDeckService struct {
	mock.Mock
}

// CreateDailyDeck is a mock implementation of deck.Service.CreateDailyDeck
func (m *MockDeckService) CreateDailyDeck(ctx context.Context, userID string) (*domain.Deck, error) {
	args := m.Called(ctx, userID)
	if d, ok := args.Get(0).(*domain.Deck); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetDeck is a mock implementation of deck.Service.GetDeck
func (m *MockDeckService) GetDeck(ctx context.Context, userID string, deckID uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, userID, deckID)
	if d, ok := args.Get(0).(*domain.Deck); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

// RecordAnswer is a mock implementation of deck.Service.RecordAnswer
func (m *MockDeckService) RecordAnswer(ctx context.Context, answer deck.Answer) (*domain.UserQuestionStat, error) {
	args := m.Called(ctx, answer)
	if s, ok := args.Get(0).(*domain.UserQuestionStat); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// TopicSummaries is a mock implementation of deck.Service.TopicSummaries
func (m *MockDeckService) TopicSummaries(ctx context.Context, userID string) ([]domain.UserTopicStat, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).([]domain.UserTopicStat); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// ResetUser is a mock implementation of deck.Service.ResetUser
func (m *MockDeckService) ResetUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
