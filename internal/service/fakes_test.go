package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"io"
	"sort"
	"sync"
	"time"
)

// --- users ---

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User

	getErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]*domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return 0, repository.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return 0, repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now().UTC()
	c := *u
	f.byID[u.ID] = &c
	return u.ID, nil
}

func (f *fakeUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Username == username })
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, username, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range f.byID {
		if other.ID == id {
			continue
		}
		if other.Username == username {
			return repository.ErrDuplicateUsername
		}
		if other.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	u.Username, u.Email = username, email
	return nil
}

// --- workouts and exercises share one store so cascades and counts work ---

type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	workouts  map[int64]domain.Workout
	exercises map[int64]domain.Exercise

	createErr error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{workouts: map[int64]domain.Workout{}, exercises: map[int64]domain.Exercise{}}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeWorkouts struct{ *fakeStore }

var _ repository.WorkoutRepository = fakeWorkouts{}

func (f fakeWorkouts) Create(_ context.Context, w *domain.Workout) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	if f.slotTaken(w) {
		return 0, repository.ErrDuplicateWorkout
	}
	w.ID = f.id()
	w.CreatedAt = time.Now().UTC()
	f.workouts[w.ID] = *w
	return w.ID, nil
}

func (f fakeWorkouts) slotTaken(w *domain.Workout) bool {
	for _, other := range f.workouts {
		if other.ID != w.ID && other.UserID == w.UserID && other.Date.Equal(w.Date) && other.Type == w.Type {
			return true
		}
	}
	return false
}

func (f fakeWorkouts) GetByID(_ context.Context, userID, id int64) (*domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (f fakeWorkouts) List(_ context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.WorkoutSummary{}
	for _, w := range f.workouts {
		if w.UserID != userID {
			continue
		}
		if filter.Date != nil && !w.Date.Equal(*filter.Date) {
			continue
		}
		if filter.Type != "" && w.Type != filter.Type {
			continue
		}
		out = append(out, domain.WorkoutSummary{Workout: w, ExerciseCount: f.countFor(w.ID)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f fakeWorkouts) countFor(workoutID int64) int {
	n := 0
	for _, e := range f.exercises {
		if e.WorkoutID == workoutID {
			n++
		}
	}
	return n
}

func (f fakeWorkouts) Update(_ context.Context, w *domain.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.workouts[w.ID]
	if !ok || stored.UserID != w.UserID {
		return repository.ErrNotFound
	}
	if f.slotTaken(w) {
		return repository.ErrDuplicateWorkout
	}
	f.workouts[w.ID] = *w
	return nil
}

func (f fakeWorkouts) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	for eid, e := range f.exercises {
		if e.WorkoutID == id {
			delete(f.exercises, eid)
		}
	}
	return nil
}

type fakeExercises struct{ *fakeStore }

var _ repository.ExerciseRepository = fakeExercises{}

func (f fakeExercises) owned(userID int64, e domain.Exercise) bool {
	w, ok := f.workouts[e.WorkoutID]
	return ok && w.UserID == userID
}

func (f fakeExercises) Create(_ context.Context, e *domain.Exercise) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workouts[e.WorkoutID]; !ok {
		return 0, repository.ErrNotFound
	}
	e.ID = f.id()
	e.CreatedAt = time.Now().UTC()
	f.exercises[e.ID] = *e
	return e.ID, nil
}

func (f fakeExercises) GetByID(_ context.Context, userID, id int64) (*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[id]
	if !ok || !f.owned(userID, e) {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f fakeExercises) List(_ context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Exercise{}
	for _, e := range f.exercises {
		if !f.owned(userID, e) || (workoutID != nil && e.WorkoutID != *workoutID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeExercises) Update(_ context.Context, userID int64, e *domain.Exercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.exercises[e.ID]
	if !ok || !f.owned(userID, stored) {
		return repository.ErrNotFound
	}
	f.exercises[e.ID] = *e
	return nil
}

func (f fakeExercises) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[id]
	if !ok || !f.owned(userID, e) {
		return repository.ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

// --- stats ---

type fakeStats struct {
	since  time.Time
	limits []int

	recent  []domain.WorkoutSummary
	weekly  domain.WeeklyStats
	records []domain.PersonalRecord
	err     error
}

func (f *fakeStats) RecentWorkouts(_ context.Context, _ int64, since time.Time, limit int) ([]domain.WorkoutSummary, error) {
	f.since = since
	f.limits = append(f.limits, limit)
	return f.recent, f.err
}

func (f *fakeStats) WeeklyVolume(_ context.Context, _ int64, since time.Time) (domain.WeeklyStats, error) {
	if !since.Equal(f.since) {
		panic("weekly window differs from recent window")
	}
	return f.weekly, f.err
}

func (f *fakeStats) PersonalRecords(_ context.Context, _ int64, limit int) ([]domain.PersonalRecord, error) {
	f.limits = append(f.limits, limit)
	return f.records, f.err
}

// --- events and storage ---

type fakePublisher struct {
	mu        sync.Mutex
	events    []domain.WorkoutEvent
	err       error
	block     bool // wait for ctx to end, like an unreachable broker
	deadlines []time.Time
}

func (p *fakePublisher) Publish(ctx context.Context, e domain.WorkoutEvent) error {
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		p.deadlines = append(p.deadlines, dl)
	}
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeStorage struct {
	objects    map[string][]byte
	putErr     error
	presignErr error
	deleted    []string
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://storage.test/" + key + "?signed", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
