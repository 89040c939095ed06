package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/football-roster/internal/db"
	"github.com/yakoovad/football-roster/internal/repository"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) FindAll(ctx context.Context) ([]*repository.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Get(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Save(ctx context.Context, team *repository.Team) (*repository.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) Destroy(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockConnection serves fixed store handles and counts Init calls.
type MockConnection struct {
	TeamRepo repository.TeamRepository
	Tx       db.Transactor

	InitCalls int
}

func (m *MockConnection) Init(context.Context) {
	m.InitCalls++
}

func (m *MockConnection) Teams() repository.TeamRepository {
	return m.TeamRepo
}

func (m *MockConnection) Transactor() db.Transactor {
	return m.Tx
}
