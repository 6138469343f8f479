package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/and161185/fittrack/internal/events"
	"github.com/and161185/fittrack/internal/limiter"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/repository"
)

var errDisk = errors.New("disk full")

// flakyStore wraps a real store and injects failures on chosen calls.
type flakyStore struct {
	repository.Store

	failCreateWorkoutAt int // 1-based call number, 0 = never
	createWorkoutCalls  int
	failCreateGoal      bool

	createUserErr   error
	createUserCalls int
	getUserErr      error
	getByNameErr    error
}

func (f *flakyStore) CreateWorkout(ctx context.Context, owner string, w model.NewWorkout) (model.Workout, error) {
	f.createWorkoutCalls++
	if f.failCreateWorkoutAt == f.createWorkoutCalls {
		return model.Workout{}, errDisk
	}
	return f.Store.CreateWorkout(ctx, owner, w)
}

func (f *flakyStore) CreateGoal(ctx context.Context, owner string, g model.NewGoal) (model.Goal, error) {
	if f.failCreateGoal {
		return model.Goal{}, errDisk
	}
	return f.Store.CreateGoal(ctx, owner, g)
}

func (f *flakyStore) CreateUser(ctx context.Context, u model.Identity) (model.Identity, error) {
	f.createUserCalls++
	if f.createUserErr != nil {
		return model.Identity{}, f.createUserErr
	}
	return f.Store.CreateUser(ctx, u)
}

func (f *flakyStore) GetUser(ctx context.Context, id string) (model.Identity, error) {
	if f.getUserErr != nil {
		return model.Identity{}, f.getUserErr
	}
	return f.Store.GetUser(ctx, id)
}

func (f *flakyStore) GetUserByUsername(ctx context.Context, name string) (model.Identity, error) {
	if f.getByNameErr != nil {
		return model.Identity{}, f.getByNameErr
	}
	return f.Store.GetUserByUsername(ctx, name)
}

// txStore reports commit/rollback of the unit of work; it does not undo writes itself.
type txStore struct {
	*flakyStore
	committed  int
	rolledBack int
}

var _ repository.Transactor = (*txStore)(nil)

func (t *txStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	if err := fn(t.flakyStore); err != nil {
		t.rolledBack++
		return err
	}
	t.committed++
	return nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error
	successErr  error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

type published struct {
	topic, key string
	env        events.Envelope
}

type fakePublisher struct {
	mu   sync.Mutex
	got  []published
	fail error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, e events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.got = append(p.got, published{topic: topic, key: key, env: e})
	return nil
}

func (p *fakePublisher) Close() error { return nil }
