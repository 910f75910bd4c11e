// Package remind schedules task reminder notifications. Each task id owns at
// most one timer handle: rescheduling cancels the previous timer first, and
// Stop tears every outstanding timer down so the owning context never leaks
// them.
package remind

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Reminder is handed to the notify func when a timer fires.
type Reminder struct {
	TaskID      string
	Description string
	At          time.Time
}

// Scheduler owns the timer handles. The notify func runs on the timer
// goroutine; keep it cheap or hand off.
type Scheduler struct {
	mu      sync.Mutex
	cfg     Config
	notify  func(Reminder)
	timers  map[string]*time.Timer
	stopped bool

	now func() time.Time
}

// NewScheduler constructs a Scheduler delivering reminders to notify.
func NewScheduler(cfg Config, notify func(Reminder)) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		notify: notify,
		timers: make(map[string]*time.Timer),
		now:    time.Now,
	}
}

// Schedule arms a reminder for the task. Any existing timer for the same id
// is cancelled first. Instants already in the past (or closer than the
// configured minimum lead) are dropped; the return value reports whether a
// timer was armed.
func (s *Scheduler) Schedule(taskID string, at time.Time, description string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}

	s.cancelLocked(taskID)

	delay := at.Sub(s.now())
	if delay <= s.cfg.MinLead {
		return false
	}

	r := Reminder{TaskID: taskID, Description: description, At: at}
	s.timers[taskID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, taskID)
		s.mu.Unlock()
		remindersFiredTotal.Inc()
		s.notify(r)
	})
	remindersScheduledTotal.Inc()
	log.Debug().Str("task_id", taskID).Time("at", at).Msg("reminder scheduled")
	return true
}

// Cancel disarms the reminder for the task, reporting whether one existed.
func (s *Scheduler) Cancel(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(taskID)
}

// Active returns the number of armed timers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every outstanding timer. The scheduler accepts no further
// work; Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
		remindersCancelledTotal.Inc()
	}
	s.stopped = true
}

func (s *Scheduler) cancelLocked(taskID string) bool {
	t, ok := s.timers[taskID]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, taskID)
	remindersCancelledTotal.Inc()
	return true
}
