package project

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listener receives a snapshot after every mutation.
type Listener func(Snapshot)

// Subscription is a handle to a registered listener.
type Subscription struct {
	id    uint64
	state *State
	once  sync.Once
}

// Unsubscribe stops delivery to the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.state.remove(s.id)
	})
}

type subscriber struct {
	id uint64
	fn Listener
}

// State is the authoritative in-memory store of projects.
//
// Mutations run under mu. Listeners are invoked afterwards under notifyMu so
// that deliveries stay in tick order without holding the data lock, which lets
// a listener read the state while it is being notified. A listener must not
// call AddProject or MoveProject: notifyMu is not reentrant and the call
// deadlocks. Hand the work to another goroutine or use SubscribeChan.
type State struct {
	mu       sync.RWMutex
	projects []*Project
	index    map[string]*Project
	subs     []subscriber
	nextSub  uint64
	tick     int64

	notifyMu sync.Mutex

	newID func() string
	now   func() time.Time
}

// StateOption configures a State.
type StateOption func(*State)

// WithIDGenerator overrides project id generation.
func WithIDGenerator(fn func() string) StateOption {
	return func(s *State) { s.newID = fn }
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) StateOption {
	return func(s *State) { s.now = fn }
}

// NewState creates an empty board.
func NewState(opts ...StateOption) *State {
	s := &State{
		index: make(map[string]*Project),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddListener registers fn for the lifetime of the state. Registering the
// same function twice delivers every snapshot to it twice.
func (s *State) AddListener(fn Listener) {
	s.Subscribe(fn)
}

// Subscribe registers fn and returns a handle that can remove it.
func (s *State) Subscribe(fn Listener) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	s.subs = append(s.subs, subscriber{id: s.nextSub, fn: fn})
	return &Subscription{id: s.nextSub, state: s}
}

// SubscribeChan forwards snapshots into a buffered channel of the given size.
// When the buffer is full the oldest pending snapshot is dropped, so a slow
// reader never blocks a mutation. The channel is never closed.
func (s *State) SubscribeChan(size int) (<-chan Snapshot, *Subscription) {
	if size < 1 {
		size = 1
	}
	ch := make(chan Snapshot, size)
	sub := s.Subscribe(func(snap Snapshot) {
		offer(ch, snap)
	})
	return ch, sub
}

func offer(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *State) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of registered listeners.
func (s *State) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// AddProject appends a new active project and notifies every listener.
func (s *State) AddProject(title, description string, people int) Project {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	now := s.now()
	proj := &Project{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		People:      people,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects = append(s.projects, proj)
	s.index[proj.ID] = proj
	s.tick++
	snap, subs := s.snapshotLocked(Change{Kind: ChangeCreated, Project: *proj})
	s.mu.Unlock()

	notify(subs, snap)
	return snap.Change.Project
}

// MoveProject sets the status of the project with the given id. Unknown ids
// and moves to the current status change nothing and notify nobody; the
// return value reports whether a move happened.
func (s *State) MoveProject(id string, status Status) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	proj, ok := s.index[id]
	if !ok || proj.Status == status {
		s.mu.Unlock()
		return false
	}
	from := proj.Status
	proj.Status = status
	proj.UpdatedAt = s.now()
	s.tick++
	snap, subs := s.snapshotLocked(Change{Kind: ChangeMoved, Project: *proj, From: from})
	s.mu.Unlock()

	notify(subs, snap)
	return true
}

// Restore replaces the board contents and tick without notifying listeners.
// It is meant for seeding the state from persisted projects at startup; the
// next change gets tick+1, so ticks keep increasing across restarts.
func (s *State) Restore(projects []Project, tick int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick = max(tick, 0)
	s.projects = make([]*Project, 0, len(projects))
	s.index = make(map[string]*Project, len(projects))
	for i := range projects {
		proj := projects[i]
		s.projects = append(s.projects, &proj)
		s.index[proj.ID] = &proj
	}
}

// Snapshot returns the current board. Its Change is empty.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, _ := s.snapshotLocked(Change{})
	return snap
}

// Get returns a copy of the project with the given id.
func (s *State) Get(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	proj, ok := s.index[id]
	if !ok {
		return Project{}, false
	}
	return *proj, true
}

// Filter returns copies of the projects with the given status.
func (s *State) Filter(status Status) []Project {
	return s.Snapshot().Filter(status)
}

// Len returns the number of projects on the board.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

func (s *State) snapshotLocked(change Change) (Snapshot, []subscriber) {
	projects := make([]Project, len(s.projects))
	for i, p := range s.projects {
		projects[i] = *p
	}
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return Snapshot{Tick: s.tick, Projects: projects, Change: change}, subs
}

// notify delivers snap to each subscriber in registration order. Each
// subscriber gets its own copy of the project slice.
func notify(subs []subscriber, snap Snapshot) {
	for _, sub := range subs {
		own := snap
		own.Projects = append([]Project(nil), snap.Projects...)
		sub.fn(own)
	}
}
