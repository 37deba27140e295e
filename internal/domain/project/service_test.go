package project_test

import (
	"context"
	"testing"

	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func newService() *project.Service {
	return project.NewService(project.NewState(), project.DefaultRules(), nil)
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	proj, err := svc.Create(ctx, project.CreateRequest{Title: "  Build API ", Description: "backend work", People: 3})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Build API", proj.Title)
	require.Equal(t, project.StatusActive, proj.Status)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Create(ctx, project.CreateRequest{Title: "", Description: "backend work", People: 3})
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Zero(t, svc.State().Len())
}

func TestProjectService_Move(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	proj, err := svc.Create(ctx, project.CreateRequest{Title: "Build API", Description: "backend work", People: 3})
	require.NoError(t, err)

	moved, changed, err := svc.Move(ctx, proj.ID, project.StatusFinished)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, project.StatusFinished, moved.Status)

	_, changed, err = svc.Move(ctx, proj.ID, project.StatusFinished)
	require.NoError(t, err)
	require.False(t, changed)

	_, _, err = svc.Move(ctx, "missing", project.StatusFinished)
	require.ErrorIs(t, err, project.ErrProjectNotFound)

	_, _, err = svc.Move(ctx, proj.ID, project.Status("archived"))
	require.ErrorIs(t, err, project.ErrInvalidStatus)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	a, err := svc.Create(ctx, project.CreateRequest{Title: "Build API", Description: "backend work", People: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, project.CreateRequest{Title: "Build UI", Description: "frontend work", People: 2})
	require.NoError(t, err)
	_, _, err = svc.Move(ctx, a.ID, project.StatusFinished)
	require.NoError(t, err)

	all, err := svc.List(ctx, project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	finished, err := svc.List(ctx, project.ListOptions{Status: project.StatusFinished})
	require.NoError(t, err)
	require.Len(t, finished, 1)
	require.Equal(t, a.ID, finished[0].ID)

	_, err = svc.List(ctx, project.ListOptions{Status: "bogus"})
	require.ErrorIs(t, err, project.ErrInvalidStatus)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
