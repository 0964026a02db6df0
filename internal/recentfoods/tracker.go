package recentfoods

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scaledown/internal/model"
	"scaledown/internal/repository"
)

const maxSaveAttempts = 3

// NotifyFunc is called after a user's recent foods were saved.
type NotifyFunc func(recent *model.RecentFoods)

// Options configure a Tracker. Zero values fall back to defaults.
type Options struct {
	Policy    Policy
	Workers   int
	QueueSize int
	Logger    *slog.Logger
	Notify    NotifyFunc
}

type job struct {
	userID uuid.UUID
	used   []model.RecentFood
}

// Tracker applies recent foods updates in the background. Jobs for one user
// always land on the same worker, and Apply holds a per-user lock on top of
// the version check done by the repository.
type Tracker struct {
	repo   repository.RecentFoodsRepository
	policy Policy
	logger *slog.Logger
	notify NotifyFunc

	queues      []chan job
	userMutexes sync.Map
	wg          sync.WaitGroup

	mu      sync.RWMutex
	ctx     context.Context
	started bool
	stopped bool
}

// NewTracker creates a tracker. Call Start before Track.
func NewTracker(repo repository.RecentFoodsRepository, opts Options) *Tracker {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Policy == "" {
		opts.Policy = PolicyReference
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	queues := make([]chan job, opts.Workers)
	for i := range queues {
		queues[i] = make(chan job, opts.QueueSize)
	}

	return &Tracker{
		repo:   repo,
		policy: opts.Policy,
		logger: opts.Logger.With("component", "recentfoods"),
		notify: opts.Notify,
		queues: queues,
		ctx:    context.Background(),
	}
}

// Start launches one worker per queue. Cancelling ctx does not abort queued
// jobs; use Stop to drain them.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true
	t.ctx = context.WithoutCancel(ctx)

	for i, q := range t.queues {
		t.wg.Add(1)
		go t.worker(i, q)
	}
	t.logger.Info("recent foods tracker started", "workers", len(t.queues), "policy", t.policy)
}

// Stop stops accepting jobs and waits until queued ones are applied.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	for _, q := range t.queues {
		close(q)
	}
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info("recent foods tracker stopped")
}

// Track schedules an update from the food list of a meal that was just
// written. It never blocks and never reports failure to the caller.
func (t *Tracker) Track(meal *model.Meal) {
	if meal == nil || len(meal.FoodList) == 0 {
		return
	}
	j := job{userID: meal.UserID, used: FromMeal(meal)}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopped {
		t.logger.Warn("tracker stopped, dropping update", "user_id", meal.UserID, "meal_id", meal.ID)
		return
	}

	select {
	case t.queues[t.shard(j.userID)] <- j:
	default:
		// Queue full, apply on a separate goroutine as fallback
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			t.run(j)
		}()
	}
}

// Apply merges used into the user's stored list and saves it, retrying when
// another writer saved in between.
func (t *Tracker) Apply(ctx context.Context, userID uuid.UUID, used []model.RecentFood) (*model.RecentFoods, error) {
	mutex := t.getMutex(userID)
	mutex.Lock()
	defer mutex.Unlock()

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		recent, err := t.repo.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			recent = &model.RecentFoods{UserID: userID}
		} else if err != nil {
			return nil, fmt.Errorf("load recent foods: %w", err)
		}

		recent.Foods = Merge(recent.Foods, used, t.policy)

		err = t.repo.Save(ctx, recent)
		if err == nil {
			if t.notify != nil {
				t.notify(recent)
			}
			return recent, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, fmt.Errorf("save recent foods: %w", err)
		}
		t.logger.Debug("recent foods changed concurrently, retrying", "user_id", userID, "attempt", attempt)
	}
	return nil, fmt.Errorf("save recent foods after %d attempts: %w", maxSaveAttempts, repository.ErrVersionConflict)
}

func (t *Tracker) worker(id int, q <-chan job) {
	defer t.wg.Done()
	for j := range q {
		t.run(j)
	}
	t.logger.Debug("tracker worker exited", "worker", id)
}

func (t *Tracker) run(j job) {
	t.mu.RLock()
	ctx := t.ctx
	t.mu.RUnlock()

	if _, err := t.Apply(ctx, j.userID, j.used); err != nil {
		t.logger.Error("failed to update recent foods", "user_id", j.userID, "error", err)
	}
}

func (t *Tracker) shard(userID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return int(h.Sum32() % uint32(len(t.queues)))
}

// getMutex returns a mutex for a specific user ID.
func (t *Tracker) getMutex(userID uuid.UUID) *sync.Mutex {
	value, _ := t.userMutexes.LoadOrStore(userID, &sync.Mutex{})
	return value.(*sync.Mutex)
}
