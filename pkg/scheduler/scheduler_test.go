package scheduler

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayer records Play calls
type fakePlayer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *fakePlayer) Play(soundPath string, duration time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, soundPath)
	return p.err
}

func (p *fakePlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type staticSource []models.Alarm

func (s staticSource) List() []models.Alarm { return s }

type panicSource struct{}

func (panicSource) List() []models.Alarm { panic("boom") }

func newTestStore(t *testing.T) *store.AlarmStore {
	t.Helper()
	return store.NewAlarmStore(filepath.Join(t.TempDir(), "alarms.json"), zerolog.Nop())
}

func TestTick_DispatchesFiredAlarms(t *testing.T) {
	var dispatched, handled []string
	s := New(staticSource{
		{ID: "a", Time: "07:30", Enabled: true},
		{ID: "b", Time: "07:30", Enabled: true},
	}, NewMatcher(), func(id string) {
		handled = append(handled, id)
	}, zerolog.Nop(), WithDispatcher(func(fn func()) {
		dispatched = append(dispatched, "task")
		fn()
	}))

	assert.Equal(t, []string{"a", "b"}, s.Tick(at(10, 7, 30, 0)))
	assert.Len(t, dispatched, 2)
	assert.Equal(t, []string{"a", "b"}, handled)

	assert.Empty(t, s.Tick(at(10, 7, 30, 1)))
	assert.Len(t, handled, 2)
}

func TestScenario_DailyStaysEnabled(t *testing.T) {
	as := newTestStore(t)
	alarm, err := as.Add("07:30", "Wake", models.RepeatDaily)
	require.NoError(t, err)

	player := &fakePlayer{}
	ringer := NewRinger(as, player, zerolog.Nop())
	s := New(as, NewMatcher(), ringer.Fire, zerolog.Nop())

	assert.Equal(t, []string{alarm.ID}, s.Tick(at(10, 7, 30, 0)))
	got, _ := as.Get(alarm.ID)
	assert.True(t, got.Enabled)

	assert.Empty(t, s.Tick(at(10, 7, 30, 1)))
	assert.Equal(t, 1, player.count())
}

func TestScenario_OneShotDisables(t *testing.T) {
	as := newTestStore(t)
	alarm, err := as.Add("07:30", "Wake", models.RepeatNone)
	require.NoError(t, err)

	player := &fakePlayer{}
	ringer := NewRinger(as, player, zerolog.Nop())
	matcher := NewMatcher()
	s := New(as, matcher, ringer.Fire, zerolog.Nop())

	s.Tick(at(10, 7, 30, 0))
	got, _ := as.Get(alarm.ID)
	assert.False(t, got.Enabled)

	// A fresh matcher would still not fire it: it is disabled
	s2 := New(as, NewMatcher(), ringer.Fire, zerolog.Nop())
	for sec := 1; sec < 60; sec++ {
		assert.Empty(t, s.Tick(at(10, 7, 30, sec)))
		assert.Empty(t, s2.Tick(at(10, 7, 30, sec)))
	}
	assert.Equal(t, 1, player.count())
}

func TestRinger_PlaybackFailureStillMarksFired(t *testing.T) {
	as := newTestStore(t)
	alarm, err := as.Add("07:30", "Wake", models.RepeatNone)
	require.NoError(t, err)

	var buf bytes.Buffer
	player := &fakePlayer{err: errors.New("no audio")}
	ringer := NewRinger(as, player, zerolog.New(&buf))

	var rung []models.Alarm
	ringer.OnRing(func(a models.Alarm) { rung = append(rung, a) })

	ringer.Fire(alarm.ID)

	got, _ := as.Get(alarm.ID)
	assert.False(t, got.Enabled)
	require.Len(t, rung, 1)
	assert.False(t, rung[0].Enabled)
	assert.Contains(t, buf.String(), "Alert playback failed")
}

func TestRinger_DeletedOrDisabledIsNoop(t *testing.T) {
	as := newTestStore(t)
	deleted, err := as.Add("07:30", "Gone", models.RepeatNone)
	require.NoError(t, err)
	disabled, err := as.Add("07:30", "Off", models.RepeatDaily)
	require.NoError(t, err)

	require.NoError(t, as.Delete(deleted.ID))
	_, err = as.Toggle(disabled.ID)
	require.NoError(t, err)

	player := &fakePlayer{}
	ringer := NewRinger(as, player, zerolog.Nop())
	rings := 0
	ringer.OnRing(func(models.Alarm) { rings++ })

	ringer.Fire(deleted.ID)
	ringer.Fire(disabled.ID)

	assert.Zero(t, player.count())
	assert.Zero(t, rings)
}

func TestRinger_UsesConfiguredSound(t *testing.T) {
	as := newTestStore(t)
	alarm, err := as.Add("07:30", "Wake", models.RepeatDaily)
	require.NoError(t, err)

	player := &fakePlayer{}
	ringer := NewRinger(as, player, zerolog.Nop())
	ringer.SetSound("/tmp/ring.wav", 5*time.Second)
	ringer.Fire(alarm.ID)

	assert.Equal(t, []string{"/tmp/ring.wav"}, player.calls)
}

func TestRun_StopsPromptlyOnCancel(t *testing.T) {
	s := New(staticSource{}, NewMatcher(), func(string) {}, zerolog.Nop(), WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRun_TicksWithInjectedClock(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	now := at(10, 7, 30, 0)
	s := New(staticSource{{ID: "a", Time: "07:30", Enabled: true}}, NewMatcher(), func(id string) {
		mu.Lock()
		fired = append(fired, id)
		mu.Unlock()
	}, zerolog.Nop(), WithInterval(5*time.Millisecond), WithClock(func() time.Time { return now }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, fired)
}

func TestRun_SurvivesPanickingTick(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := zerolog.New(&lockedWriter{w: &buf, mu: &mu})

	s := New(panicSource{}, NewMatcher(), func(string) {}, logger, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("Scheduler tick failed")), 1)
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
