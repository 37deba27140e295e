package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/rpggio/projectboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJournal_RecordsChanges(t *testing.T) {
	repo := &mocks.ProjectRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *project.Project) bool {
		return p.ID == "p1" && p.Status == project.StatusActive
	}), int64(1)).Return(nil).Once()
	repo.On("UpdateStatus", mock.Anything, "p1", project.StatusFinished, mock.Anything, int64(2)).Return(nil).Once()

	state := project.NewState(project.WithIDGenerator(sequentialIDs()))
	project.NewJournal(repo, nil).Attach(state)

	proj := state.AddProject("Build API", "backend work", 3)
	state.MoveProject(proj.ID, project.StatusFinished)

	repo.AssertExpectations(t)
}

func TestJournal_WriteFailureKeepsState(t *testing.T) {
	repo := &mocks.ProjectRepository{}
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	state := project.NewState()
	project.NewJournal(repo, nil).Attach(state)

	state.AddProject("Build API", "backend work", 3)
	require.Equal(t, 1, state.Len())
}

func TestJournal_Load(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return([]project.Project{
		{ID: "a", Title: "Alpha project", Status: project.StatusActive},
		{ID: "b", Title: "Beta project", Status: project.StatusFinished},
	}, nil)
	repo.On("LastTick", ctx).Return(int64(7), nil)

	state := project.NewState()
	require.NoError(t, project.NewJournal(repo, nil).Load(ctx, state))
	require.Equal(t, 2, state.Len())
	require.Len(t, state.Filter(project.StatusFinished), 1)
	require.Equal(t, int64(7), state.Snapshot().Tick)

	state.AddProject("Gamma project", "third description", 3)
	require.Equal(t, int64(8), state.Snapshot().Tick)
}

func TestJournal_LoadTickFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return([]project.Project{}, nil)
	repo.On("LastTick", ctx).Return(int64(0), errors.New("disk gone"))

	require.Error(t, project.NewJournal(repo, nil).Load(ctx, project.NewState()))
}
