package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRoleHierarchyStore implements store.RoleHierarchyStore for testing using testify/mock
type MockRoleHierarchyStore struct {
	mock.Mock
}

func (m *MockRoleHierarchyStore) FindHierarchyByChildName(ctx context.Context, childName string) (*model.RoleHierarchy, error) {
	args := m.Called(ctx, childName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleHierarchy), args.Error(1)
}

func (m *MockRoleHierarchyStore) SaveHierarchy(ctx context.Context, node *model.RoleHierarchy) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockRoleHierarchyStore) ListHierarchy(ctx context.Context) ([]model.RoleHierarchy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoleHierarchy), args.Error(1)
}

// MockAccessIPStore implements store.AccessIPStore for testing using testify/mock
type MockAccessIPStore struct {
	mock.Mock
}

func (m *MockAccessIPStore) FindAccessIPByAddress(ctx context.Context, addr string) (*model.AccessIP, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessIP), args.Error(1)
}

func (m *MockAccessIPStore) SaveAccessIP(ctx context.Context, entry *model.AccessIP) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAccessIPStore) ListAccessIPs(ctx context.Context) ([]model.AccessIP, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessIP), args.Error(1)
}
