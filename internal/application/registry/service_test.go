package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/registry"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
	robotmocks "github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl/mocks"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/robot"
	repomocks "github.com/YakRoboticsGarage/yakrover-backend/internal/domain/robot/mocks"
)

const (
	robotWallet = "0xbee0000000000000000000000000000000000007"
	motorIP     = "192.168.1.10"
)

var (
	mockCtx   = mock.Anything
	mockRobot = mock.AnythingOfType("*robot.Robot")
)

func validInput() registry.CreateInput {
	return registry.CreateInput{
		Name:          "tumbller-1",
		MotorIP:       motorIP,
		CameraIP:      "192.168.1.11",
		WalletAddress: robotWallet,
	}
}

func offlineClient(t *testing.T) *robotmocks.MockClient {
	t.Helper()
	client := robotmocks.NewMockClient(gomock.NewController(t))
	client.EXPECT().RobotInfo(gomock.Any(), gomock.Any()).Return(nil, assert.AnError).AnyTimes()
	client.EXPECT().CameraInfo(gomock.Any(), gomock.Any()).Return(nil, assert.AnError).AnyTimes()
	return client
}

func TestCreateRegistersNewRobot(t *testing.T) {
	repo := new(repomocks.MockRepository)
	repo.On("GetByName", mockCtx, "tumbller-1").Return(nil, nil)
	repo.On("Create", mockCtx, mockRobot).Return(nil)

	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())
	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, result.Existing)
	assert.False(t, result.Reactivated)
	assert.Equal(t, "tumbller-1", result.Robot.Name)
	assert.Equal(t, robotWallet, result.Robot.WalletAddress)
	assert.NotEqual(t, uuid.Nil, result.Robot.RobotID)
	assert.Nil(t, result.Robot.MotorMDNS)
	repo.AssertExpectations(t)
}

func TestCreateProbesMDNS(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := robotmocks.NewMockClient(ctrl)
	client.EXPECT().RobotInfo(gomock.Any(), motorIP).
		Return(&robotctl.Info{MDNSName: "tumbller-1.local", IP: motorIP}, nil)
	client.EXPECT().CameraInfo(gomock.Any(), motorIP).
		Return(&robotctl.Info{MDNSName: "tumbller-1-cam.local", IP: "192.168.1.11"}, nil)

	repo := new(repomocks.MockRepository)
	repo.On("GetByName", mockCtx, "tumbller-1").Return(nil, nil)
	repo.On("GetByMDNS", mockCtx, "tumbller-1.local").Return(nil, nil)
	repo.On("Create", mockCtx, mockRobot).Return(nil)

	svc := registry.NewService(repo, client, zerolog.Nop())
	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NotNil(t, result.Robot.MotorMDNS)
	assert.Equal(t, "tumbller-1.local", *result.Robot.MotorMDNS)
	require.NotNil(t, result.Robot.CameraMDNS)
	assert.Equal(t, "tumbller-1-cam.local", *result.Robot.CameraMDNS)
}

func TestCreateRejectsTakenName(t *testing.T) {
	repo := new(repomocks.MockRepository)
	repo.On("GetByName", mockCtx, "tumbller-1").Return(&robot.Robot{Name: "tumbller-1"}, nil)

	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())
	_, err := svc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, registry.ErrNameTaken)
}

func TestCreateRejectsBadName(t *testing.T) {
	for _, name := range []string{"", "AB", "-leading", "trailing-", "has spaces", "UPPER"} {
		input := validInput()
		input.Name = name
		svc := registry.NewService(new(repomocks.MockRepository), offlineClient(t), zerolog.Nop())
		_, err := svc.Create(context.Background(), input)
		assert.Error(t, err, "name %q", name)
	}
}

func TestCreateRejectsBadWallet(t *testing.T) {
	input := validInput()
	input.WalletAddress = "0xnothex"
	svc := registry.NewService(new(repomocks.MockRepository), offlineClient(t), zerolog.Nop())
	_, err := svc.Create(context.Background(), input)
	assert.Error(t, err)
}

func TestCreateReturnsExistingByMDNS(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := robotmocks.NewMockClient(ctrl)
	client.EXPECT().RobotInfo(gomock.Any(), motorIP).
		Return(&robotctl.Info{MDNSName: "tumbller-1.local", IP: motorIP}, nil)
	client.EXPECT().CameraInfo(gomock.Any(), motorIP).Return(nil, assert.AnError)

	known := &robot.Robot{RobotID: uuid.New(), Name: "tumbller-old", WalletAddress: robotWallet}
	repo := new(repomocks.MockRepository)
	repo.On("GetByName", mockCtx, "tumbller-1").Return(nil, nil)
	repo.On("GetByMDNS", mockCtx, "tumbller-1.local").Return(known, nil)

	svc := registry.NewService(repo, client, zerolog.Nop())
	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, result.Existing)
	assert.Same(t, known, result.Robot)
	repo.AssertNotCalled(t, "Create", mockCtx, mockRobot)
}

func TestCreateReactivatesSoftDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := robotmocks.NewMockClient(ctrl)
	client.EXPECT().RobotInfo(gomock.Any(), motorIP).
		Return(&robotctl.Info{MDNSName: "tumbller-1.local", IP: motorIP}, nil)
	client.EXPECT().CameraInfo(gomock.Any(), motorIP).Return(nil, assert.AnError)

	deletedAt := time.Now().UTC().Add(-time.Hour)
	known := &robot.Robot{
		RobotID:       uuid.New(),
		Name:          "tumbller-old",
		MotorIP:       "10.0.0.5",
		WalletAddress: robotWallet,
		DeletedAt:     &deletedAt,
	}
	repo := new(repomocks.MockRepository)
	repo.On("GetByName", mockCtx, "tumbller-1").Return(nil, nil)
	repo.On("GetByMDNS", mockCtx, "tumbller-1.local").Return(known, nil)
	repo.On("Update", mockCtx, known).Return(nil)

	svc := registry.NewService(repo, client, zerolog.Nop())
	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, result.Reactivated)
	assert.Nil(t, result.Robot.DeletedAt)
	assert.Equal(t, motorIP, result.Robot.MotorIP)
	// Reactivation keeps the original receiving wallet.
	assert.Equal(t, robotWallet, result.Robot.WalletAddress)
	repo.AssertExpectations(t)
}

func TestGetExcludesDeleted(t *testing.T) {
	id := uuid.New()
	deletedAt := time.Now().UTC()
	repo := new(repomocks.MockRepository)
	repo.On("GetByID", mockCtx, id).Return(&robot.Robot{RobotID: id, DeletedAt: &deletedAt}, nil)

	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestUpdateCannotChangeWallet(t *testing.T) {
	id := uuid.New()
	repo := new(repomocks.MockRepository)
	repo.On("GetByID", mockCtx, id).Return(&robot.Robot{RobotID: id, Name: "tumbller-1", WalletAddress: robotWallet}, nil)
	repo.On("Update", mockCtx, mockRobot).Return(nil)

	newName := "tumbller-renamed"
	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())
	updated, err := svc.Update(context.Background(), id, registry.UpdateInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, robotWallet, updated.WalletAddress)
}

func TestDeleteNotFound(t *testing.T) {
	id := uuid.New()
	repo := new(repomocks.MockRepository)
	repo.On("SoftDelete", mockCtx, id).Return(false, nil)

	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())
	assert.ErrorIs(t, svc.Delete(context.Background(), id), registry.ErrNotFound)
}

func TestPaymentRecipient(t *testing.T) {
	repo := new(repomocks.MockRepository)
	repo.On("GetByHost", mockCtx, "tumbller-1.local").
		Return(&robot.Robot{WalletAddress: robotWallet}, nil)
	repo.On("GetByHost", mockCtx, "unknown.local").Return(nil, nil)

	svc := registry.NewService(repo, offlineClient(t), zerolog.Nop())

	got, err := svc.PaymentRecipient(context.Background(), "Tumbller-1.LOCAL")
	require.NoError(t, err)
	assert.Equal(t, robotWallet, got)

	_, err = svc.PaymentRecipient(context.Background(), "unknown.local")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}
