package scheduler

import (
	"sync"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
)

const dateLayout = "20060102"

// FiredKey marks that an alarm already rang in a given calendar minute
type FiredKey struct {
	Date    string // YYYYMMDD
	AlarmID string
	Time    string // HH:MM
}

// Matcher decides which alarms ring in the current minute, at most once per
// alarm per calendar minute no matter how often it is polled.
type Matcher struct {
	mu    sync.Mutex
	fired map[FiredKey]struct{}
	date  string // latest date seen by Match
}

// NewMatcher creates a Matcher with an empty fired-key set
func NewMatcher() *Matcher {
	return &Matcher{
		fired: make(map[FiredKey]struct{}),
	}
}

// Match returns the IDs of enabled alarms set to now's HH:MM that have not
// already fired this minute, in list order. now is read in its own location.
func (m *Matcher) Match(now time.Time, alarms []models.Alarm) []string {
	now = now.Truncate(time.Minute)
	date := now.Format(dateLayout)
	hm := now.Format(models.TimeLayout)

	m.mu.Lock()
	defer m.mu.Unlock()

	// A backward clock step keeps the newer keys
	if date > m.date {
		m.pruneLocked(date)
		m.date = date
	}

	var ids []string
	for _, a := range alarms {
		if !a.Enabled || a.Time != hm {
			continue
		}
		key := FiredKey{Date: date, AlarmID: a.ID, Time: a.Time}
		if _, ok := m.fired[key]; ok {
			continue
		}
		m.fired[key] = struct{}{}
		ids = append(ids, a.ID)
	}
	return ids
}

// HasFired reports whether key is in the fired-key set
func (m *Matcher) HasFired(key FiredKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.fired[key]
	return ok
}

// Len returns the size of the fired-key set
func (m *Matcher) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fired)
}

// pruneLocked drops keys from earlier dates
func (m *Matcher) pruneLocked(today string) {
	for key := range m.fired {
		if key.Date < today {
			delete(m.fired, key)
		}
	}
}
