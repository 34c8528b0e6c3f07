package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/robot"
)

// MockRepository is a mock implementation of robot.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *robot.Robot) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, robotID uuid.UUID) (*robot.Robot, error) {
	args := m.Called(ctx, robotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*robot.Robot), args.Error(1)
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*robot.Robot, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*robot.Robot), args.Error(1)
}

func (m *MockRepository) GetByHost(ctx context.Context, host string) (*robot.Robot, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*robot.Robot), args.Error(1)
}

func (m *MockRepository) GetByMDNS(ctx context.Context, mdns string) (*robot.Robot, error) {
	args := m.Called(ctx, mdns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*robot.Robot), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*robot.Robot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*robot.Robot), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, r *robot.Robot) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, robotID uuid.UUID) (bool, error) {
	args := m.Called(ctx, robotID)
	return args.Bool(0), args.Error(1)
}
