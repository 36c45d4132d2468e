package teamflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/eventbus"
	"cleanops/internal/storage"
)

type MockTeamStorage struct {
	mock.Mock
}

func (m *MockTeamStorage) GetTeam(ctx context.Context, id int64) (*storage.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Team), args.Error(1)
}

func (m *MockTeamStorage) GetTeamMembers(ctx context.Context, teamID int64) ([]*storage.Worker, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Worker), args.Error(1)
}

func (m *MockTeamStorage) SetTeamLeader(ctx context.Context, teamID, workerID int64) error {
	args := m.Called(ctx, teamID, workerID)
	return args.Error(0)
}

func (m *MockTeamStorage) AddTeamMember(ctx context.Context, teamID, workerID int64) error {
	args := m.Called(ctx, teamID, workerID)
	return args.Error(0)
}

func (m *MockTeamStorage) RemoveTeamMember(ctx context.Context, teamID, workerID int64) error {
	args := m.Called(ctx, teamID, workerID)
	return args.Error(0)
}

func (m *MockTeamStorage) TransferWorkerTx(ctx context.Context, workerID int64, fromTeamID *int64, toTeamID int64) error {
	args := m.Called(ctx, workerID, fromTeamID, toTeamID)
	return args.Error(0)
}

func ptr(v int64) *int64 { return &v }

func teamWithLeader(leaderID *int64) *storage.Team {
	return &storage.Team{ID: 1, Name: "فريق الرياض", LeaderID: leaderID}
}

func TestEligibleLeaders_ExcludesLeaderAndInactive(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)
	mockStore.On("GetTeamMembers", mock.Anything, int64(1)).
		Return([]*storage.Worker{
			{ID: 100, Status: storage.WorkerActive},  // текущий лидер
			{ID: 101, Status: storage.WorkerActive},  // кандидат
			{ID: 102, Status: storage.WorkerOnLeave}, // в отпуске
			{ID: 103, Status: storage.WorkerActive},  // кандидат
		}, nil)

	svc := NewService(mockStore, eventbus.New())

	eligible, err := svc.EligibleLeaders(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, eligible, 2)
	assert.Equal(t, int64(101), eligible[0].ID)
	assert.Equal(t, int64(103), eligible[1].ID)
}

// Лидер — единственный активный член: кандидатов нет, перевод лидера
// заблокирован до появления замены.
func TestEligibleLeaders_Empty(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)
	mockStore.On("GetTeamMembers", mock.Anything, int64(1)).
		Return([]*storage.Worker{
			{ID: 100, Status: storage.WorkerActive},
			{ID: 102, Status: storage.WorkerInactive},
		}, nil)

	svc := NewService(mockStore, eventbus.New())

	eligible, err := svc.EligibleLeaders(context.Background(), 1)

	assert.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestReplaceLeader_Success(t *testing.T) {
	mockStore := new(MockTeamStorage)
	bus := eventbus.New()

	emitted := 0
	bus.On(eventbus.TopicTeamsChanged, func() { emitted++ })

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)
	mockStore.On("GetTeamMembers", mock.Anything, int64(1)).
		Return([]*storage.Worker{
			{ID: 100, Status: storage.WorkerActive},
			{ID: 101, Status: storage.WorkerActive},
		}, nil)
	mockStore.On("SetTeamLeader", mock.Anything, int64(1), int64(101)).Return(nil)

	svc := NewService(mockStore, bus)

	err := svc.ReplaceLeader(context.Background(), 1, 101)

	assert.NoError(t, err)
	assert.Equal(t, 1, emitted)
	mockStore.AssertExpectations(t)
}

func TestReplaceLeader_NotEligible(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)
	mockStore.On("GetTeamMembers", mock.Anything, int64(1)).
		Return([]*storage.Worker{
			{ID: 100, Status: storage.WorkerActive},
			{ID: 101, Status: storage.WorkerActive},
		}, nil)

	svc := NewService(mockStore, eventbus.New())

	// 999 вообще не в команде; 100 — текущий лидер, сам себе не замена
	assert.ErrorIs(t, svc.ReplaceLeader(context.Background(), 1, 999), ErrNotEligible)
	assert.ErrorIs(t, svc.ReplaceLeader(context.Background(), 1, 100), ErrNotEligible)

	mockStore.AssertNotCalled(t, "SetTeamLeader")
}

// Лидера нельзя перевести, пока ему не назначена замена: транзакция
// перевода даже не начинается.
func TestTransfer_LeaderBlocked(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)

	svc := NewService(mockStore, eventbus.New())

	err := svc.Transfer(context.Background(), 100, ptr(1), 2)

	assert.ErrorIs(t, err, storage.ErrLeaderNotReplaced)
	mockStore.AssertNotCalled(t, "TransferWorkerTx")
}

func TestTransfer_MemberMoves(t *testing.T) {
	mockStore := new(MockTeamStorage)
	bus := eventbus.New()

	var topics []string
	bus.On(eventbus.TopicTeamsChanged, func() { topics = append(topics, eventbus.TopicTeamsChanged) })
	bus.On(eventbus.TopicWorkersChanged, func() { topics = append(topics, eventbus.TopicWorkersChanged) })

	mockStore.On("GetTeam", mock.Anything, int64(1)).
		Return(teamWithLeader(ptr(100)), nil)
	mockStore.On("TransferWorkerTx", mock.Anything, int64(101),
		mock.MatchedBy(func(from *int64) bool { return from != nil && *from == 1 }),
		int64(2)).
		Return(nil)

	svc := NewService(mockStore, bus)

	err := svc.Transfer(context.Background(), 101, ptr(1), 2)

	assert.NoError(t, err)
	assert.Contains(t, topics, eventbus.TopicTeamsChanged)
	assert.Contains(t, topics, eventbus.TopicWorkersChanged)
	mockStore.AssertExpectations(t)
}

// Работник без команды: проверка лидерства пропускается, перевод
// сводится к открытию членства в целевой команде.
func TestTransfer_NilSourceTeam(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("TransferWorkerTx", mock.Anything, int64(101), (*int64)(nil), int64(2)).
		Return(nil)

	svc := NewService(mockStore, eventbus.New())

	err := svc.Transfer(context.Background(), 101, nil, 2)

	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "GetTeam")
}

func TestTransfer_TxErrorPropagates(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("TransferWorkerTx", mock.Anything, int64(101), (*int64)(nil), int64(2)).
		Return(storage.ErrAlreadyInTeam)

	svc := NewService(mockStore, eventbus.New())

	err := svc.Transfer(context.Background(), 101, nil, 2)

	assert.ErrorIs(t, err, storage.ErrAlreadyInTeam)
}

func TestRemoveMember_NotFound(t *testing.T) {
	mockStore := new(MockTeamStorage)

	mockStore.On("RemoveTeamMember", mock.Anything, int64(1), int64(105)).
		Return(storage.ErrNotFound)

	svc := NewService(mockStore, eventbus.New())

	err := svc.RemoveMember(context.Background(), 1, 105)

	assert.ErrorIs(t, err, storage.ErrNotFound)
}
