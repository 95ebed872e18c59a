package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// MockAppsStore implements store.AppsStore for testing using testify/mock
type MockAppsStore struct {
	mock.Mock

	// RolledBack is set when the last Transaction returned an error
	RolledBack bool
}

func NewMockAppsStore() *MockAppsStore {
	return &MockAppsStore{}
}

func (m *MockAppsStore) ListApps() ([]model.App, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.App), args.Error(1)
}

func (m *MockAppsStore) FetchApp(id uint) (*model.App, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.App), args.Error(1)
}

func (m *MockAppsStore) CreateApp(app *model.App) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *MockAppsStore) UpdateApp(app *model.App) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *MockAppsStore) DeleteApp(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAppsStore) AddMember(appID, userID uint) error {
	args := m.Called(appID, userID)
	return args.Error(0)
}

func (m *MockAppsStore) CreateScheme(appID uint, name string) (*model.Scheme, error) {
	args := m.Called(appID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scheme), args.Error(1)
}

func (m *MockAppsStore) CreateChannel(schemeID uint, name string, deviceType model.DeviceType) (*model.Channel, error) {
	args := m.Called(schemeID, name, deviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

// Transaction runs fn against the mock itself.
func (m *MockAppsStore) Transaction(fn func(store.AppsStore) error) error {
	err := fn(m)
	m.RolledBack = err != nil
	return err
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAssetsStore implements assets.Store for testing using testify/mock
type MockAssetsStore struct {
	mock.Mock
}

func (m *MockAssetsStore) Location(appID uint) string {
	args := m.Called(appID)
	return args.String(0)
}

func (m *MockAssetsStore) RemoveApp(ctx context.Context, appID uint) error {
	args := m.Called(ctx, appID)
	return args.Error(0)
}
