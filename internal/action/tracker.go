// Package action отслеживает состояние пользовательских действий и не допускает
// повторного запуска действия, пока предыдущий запуск не завершился.
package action

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State описывает состояние действия.
type State string

const (
	StateIdle     State = "idle"
	StateInFlight State = "in_flight"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

// ErrInFlight возвращается при попытке запустить действие, которое ещё выполняется.
var ErrInFlight = errors.New("action already in flight")

// Key идентифицирует действие над конкретным объектом, например ("pay", bookingID).
type Key struct {
	Name    string
	Subject string
}

// Status описывает последний известный исход действия.
type Status struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// DefaultTTL - время, в течение которого хранится исход завершённого действия.
const DefaultTTL = 10 * time.Minute

type entry struct {
	status   Status
	finished time.Time
}

// Tracker хранит состояние действий в памяти процесса.
// Исходы done и failed удаляются через ttl после завершения, in_flight хранится до Finish.
type Tracker struct {
	mu        sync.Mutex
	actions   map[Key]entry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// Option настраивает Tracker.
type Option func(*Tracker)

// WithTTL задаёт время хранения исхода действия.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker создаёт пустой Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		actions: make(map[Key]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lastSweep = t.now()
	return t
}

// Status возвращает состояние действия. Неизвестное или устаревшее действие находится в состоянии idle.
func (t *Tracker) Status(key Key) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.actions[key]
	if !ok || t.expired(e, t.now()) {
		return Status{State: StateIdle}
	}
	return e.status
}

// Begin переводит действие в состояние in_flight.
func (t *Tracker) Begin(key Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sweep()

	if t.actions[key].status.State == StateInFlight {
		return ErrInFlight
	}
	t.actions[key] = entry{status: Status{State: StateInFlight}}
	return nil
}

// Finish фиксирует исход действия: done при err == nil, иначе failed.
func (t *Tracker) Finish(key Key, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{State: StateDone}
	if err != nil {
		st = Status{State: StateFailed, Error: err.Error()}
	}
	t.actions[key] = entry{status: st, finished: t.now()}
}

// Run выполняет fn как действие key. Повторный запуск во время выполнения отклоняется с ErrInFlight.
func (t *Tracker) Run(ctx context.Context, key Key, fn func(ctx context.Context) error) error {
	if err := t.Begin(key); err != nil {
		return err
	}

	var err error
	defer func() {
		if r := recover(); r != nil {
			t.Finish(key, errors.New("action panicked"))
			panic(r)
		}
		t.Finish(key, err)
	}()

	err = fn(ctx)
	return err
}

// Forget удаляет запись о действии.
func (t *Tracker) Forget(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.actions, key)
}

func (t *Tracker) expired(e entry, now time.Time) bool {
	return e.status.State != StateInFlight && now.Sub(e.finished) >= t.ttl
}

// sweep удаляет устаревшие исходы не чаще раза в ttl. Вызывается под t.mu.
func (t *Tracker) sweep() {
	now := t.now()
	if now.Sub(t.lastSweep) < t.ttl {
		return
	}
	t.lastSweep = now

	for key, e := range t.actions {
		if t.expired(e, now) {
			delete(t.actions, key)
		}
	}
}
