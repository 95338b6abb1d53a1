package components

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldButton_CompletesAfterHold(t *testing.T) {
	test.NewTempApp(t)

	done := make(chan struct{})
	b := NewHoldButton("Hold to dismiss", 100*time.Millisecond, func() { close(done) })
	test.NewTempWindow(t, b)

	b.MouseDown(nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hold never completed")
	}
	assert.Equal(t, 1.0, b.Progress())
}

func TestHoldButton_EarlyReleaseResets(t *testing.T) {
	test.NewTempApp(t)

	completed := make(chan struct{}, 1)
	b := NewHoldButton("Hold to dismiss", 300*time.Millisecond, func() { completed <- struct{}{} })
	test.NewTempWindow(t, b)

	b.MouseDown(nil)
	time.Sleep(120 * time.Millisecond)
	b.MouseUp(nil)

	assert.Zero(t, b.Progress())
	select {
	case <-completed:
		t.Fatal("released button completed")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestHoldButton_MouseOutCancels(t *testing.T) {
	test.NewTempApp(t)

	b := NewHoldButton("Hold", 200*time.Millisecond, func() { t.Error("should not complete") })
	test.NewTempWindow(t, b)

	b.MouseDown(nil)
	b.MouseOut()
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, b.Progress())
}

func TestAlarmList_SelectionFollowsAlarm(t *testing.T) {
	test.NewTempApp(t)

	var last models.Alarm
	var lastOK bool
	al, obj := NewAlarmList(func(a models.Alarm, ok bool) { last, lastOK = a, ok })
	test.NewTempWindow(t, obj)

	a := models.Alarm{ID: "a", Time: "07:00", Label: "A", Enabled: true}
	b := models.Alarm{ID: "b", Time: "08:00", Label: "B", Enabled: true}
	al.SetAlarms([]models.Alarm{a, b})
	assert.Equal(t, 2, al.Len())

	al.list.Select(1)
	require.True(t, lastOK)
	assert.Equal(t, "b", last.ID)

	// b moves to the front and changes state
	b.Enabled = false
	al.SetAlarms([]models.Alarm{b, a})
	got, ok := al.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
	assert.False(t, got.Enabled)

	// b is deleted
	al.SetAlarms([]models.Alarm{a})
	_, ok = al.Selected()
	assert.False(t, ok)
	assert.False(t, lastOK)
}
