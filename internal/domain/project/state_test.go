package project_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func TestState_AddProjectNotifiesWithSnapshot(t *testing.T) {
	state := project.NewState()

	var got []project.Snapshot
	state.AddListener(func(s project.Snapshot) { got = append(got, s) })

	proj := state.AddProject("Build API", "backend work", 3)
	require.NotEmpty(t, proj.ID)

	require.Len(t, got, 1)
	require.Len(t, got[0].Projects, 1)
	p := got[0].Projects[0]
	require.Equal(t, "Build API", p.Title)
	require.Equal(t, "backend work", p.Description)
	require.Equal(t, 3, p.People)
	require.Equal(t, project.StatusActive, p.Status)
	require.Equal(t, project.ChangeCreated, got[0].Change.Kind)
}

func TestState_EachAddGrowsSnapshotByOne(t *testing.T) {
	state := project.NewState()

	var lengths []int
	var calls int
	state.AddListener(func(s project.Snapshot) {
		calls++
		lengths = append(lengths, len(s.Projects))
	})

	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		p := state.AddProject(fmt.Sprintf("title %d", i), "description", 2)
		require.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
	}
	require.Equal(t, 5, calls)
	require.Equal(t, []int{1, 2, 3, 4, 5}, lengths)
}

func TestState_ListenersRunInRegistrationOrder(t *testing.T) {
	state := project.NewState()

	var order []string
	first := func(project.Snapshot) { order = append(order, "first") }
	state.AddListener(first)
	state.AddListener(func(project.Snapshot) { order = append(order, "second") })
	state.AddListener(first)

	state.AddProject("Build API", "backend work", 3)
	require.Equal(t, []string{"first", "second", "first"}, order)
}

func TestState_MoveProjectPreservesOrder(t *testing.T) {
	state := project.NewState(project.WithIDGenerator(sequentialIDs()))

	var last project.Snapshot
	state.AddListener(func(s project.Snapshot) { last = s })

	first := state.AddProject("First project", "first description", 2)
	second := state.AddProject("Second project", "second description", 3)

	require.True(t, state.MoveProject(second.ID, project.StatusFinished))

	require.Len(t, last.Projects, 2)
	require.Equal(t, first.ID, last.Projects[0].ID)
	require.Equal(t, project.StatusActive, last.Projects[0].Status)
	require.Equal(t, second.ID, last.Projects[1].ID)
	require.Equal(t, project.StatusFinished, last.Projects[1].Status)
	require.Equal(t, project.ChangeMoved, last.Change.Kind)
	require.Equal(t, project.StatusActive, last.Change.From)
}

func TestState_MoveProjectNoopDoesNotNotify(t *testing.T) {
	state := project.NewState()
	proj := state.AddProject("Build API", "backend work", 3)

	calls := 0
	state.AddListener(func(project.Snapshot) { calls++ })

	require.False(t, state.MoveProject("missing", project.StatusFinished))
	require.False(t, state.MoveProject(proj.ID, project.StatusActive))
	require.Equal(t, 0, calls)

	snap := state.Snapshot()
	require.Len(t, snap.Projects, 1)
	require.Equal(t, project.StatusActive, snap.Projects[0].Status)
}

func TestState_UnsubscribeStopsDelivery(t *testing.T) {
	state := project.NewState()

	calls := 0
	sub := state.Subscribe(func(project.Snapshot) { calls++ })
	require.Equal(t, 1, state.SubscriberCount())

	state.AddProject("Build API", "backend work", 3)
	sub.Unsubscribe()
	sub.Unsubscribe()
	state.AddProject("Build UI", "frontend work", 2)

	require.Equal(t, 1, calls)
	require.Equal(t, 0, state.SubscriberCount())
}

func TestState_SnapshotsAreCopies(t *testing.T) {
	state := project.NewState()

	var snaps []project.Snapshot
	state.AddListener(func(s project.Snapshot) { snaps = append(snaps, s) })
	state.AddListener(func(s project.Snapshot) { s.Projects[0].Title = "mutated" })

	proj := state.AddProject("Build API", "backend work", 3)

	require.Equal(t, "Build API", snaps[0].Projects[0].Title)
	got, ok := state.Get(proj.ID)
	require.True(t, ok)
	require.Equal(t, "Build API", got.Title)
}

func TestState_ListenerMayReadState(t *testing.T) {
	state := project.NewState()

	var seen int
	state.AddListener(func(project.Snapshot) { seen = state.Len() })

	state.AddProject("Build API", "backend work", 3)
	require.Equal(t, 1, seen)
}

func TestState_TickIncreasesUnderConcurrency(t *testing.T) {
	state := project.NewState()

	var mu sync.Mutex
	var ticks []int64
	state.AddListener(func(s project.Snapshot) {
		mu.Lock()
		ticks = append(ticks, s.Tick)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.AddProject("Concurrent", "concurrent add", 2)
		}()
	}
	wg.Wait()

	require.Len(t, ticks, 20)
	for i := 1; i < len(ticks); i++ {
		require.Greater(t, ticks[i], ticks[i-1])
	}
	require.Equal(t, 20, state.Len())
}

func TestState_RestoreDoesNotNotify(t *testing.T) {
	state := project.NewState()
	calls := 0
	state.AddListener(func(project.Snapshot) { calls++ })

	state.Restore([]project.Project{
		{ID: "a", Title: "Alpha project", Status: project.StatusFinished},
		{ID: "b", Title: "Beta project", Status: project.StatusActive},
	}, 5)

	require.Equal(t, 0, calls)
	require.Len(t, state.Filter(project.StatusFinished), 1)
	require.Equal(t, "a", state.Snapshot().Projects[0].ID)
	require.Equal(t, int64(5), state.Snapshot().Tick)

	require.True(t, state.MoveProject("b", project.StatusFinished))
	require.Equal(t, 1, calls)
	require.Equal(t, int64(6), state.Snapshot().Tick, "ticks continue after a restore")
}

func TestState_SubscribeChanDropsOldest(t *testing.T) {
	state := project.NewState()
	ch, sub := state.SubscribeChan(2)
	defer sub.Unsubscribe()

	for i := range 5 {
		state.AddProject(fmt.Sprintf("Project %d", i), "description", 3)
	}

	first := <-ch
	second := <-ch
	require.Equal(t, int64(4), first.Tick)
	require.Equal(t, int64(5), second.Tick)
	require.Len(t, second.Projects, 5)

	sub.Unsubscribe()
	state.AddProject("After unsubscribe", "description", 3)
	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot at tick %d", snap.Tick)
	default:
	}
}

func TestState_ListenerHandsOffMutation(t *testing.T) {
	state := project.NewState()
	var once sync.Once
	done := make(chan struct{})
	state.AddListener(func(snap project.Snapshot) {
		if snap.Change.Kind != project.ChangeCreated {
			return
		}
		once.Do(func() {
			// Calling MoveProject inline would deadlock on the notify lock.
			go func() {
				defer close(done)
				state.MoveProject(snap.Change.Project.ID, project.StatusFinished)
			}()
		})
	})

	proj := state.AddProject("Build API", "backend work", 3)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("hand-off mutation did not complete")
	}
	got, ok := state.Get(proj.ID)
	require.True(t, ok)
	require.Equal(t, project.StatusFinished, got.Status)
	require.Equal(t, int64(2), state.Snapshot().Tick)
}
