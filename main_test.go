package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/borgmon/alarm-clock/pkg/models"
	"github.com/borgmon/alarm-clock/pkg/store"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	require.NoError(t, cmd.Run(context.Background(), append([]string{"alarm-clock"}, args...)))
	return out.String()
}

func TestCLI_AddListExportImport(t *testing.T) {
	dir := t.TempDir()
	alarms := filepath.Join(dir, "alarms.json")

	out := runCLI(t, "--alarms", alarms, "add", "--daily", "07:30", "Wake up")
	assert.Contains(t, out, "Added 07:30")

	out = runCLI(t, "--alarms", alarms, "add", "22:15")
	assert.Contains(t, out, "Alarm")

	out = runCLI(t, "--alarms", alarms, "list")
	assert.Contains(t, out, "Wake up")
	assert.Contains(t, out, "daily")
	assert.Contains(t, out, "22:15")

	ics := filepath.Join(dir, "alarms.ics")
	runCLI(t, "--alarms", alarms, "export", ics)
	data, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Wake up")

	other := filepath.Join(dir, "other.json")
	out = runCLI(t, "--alarms", other, "import", ics)
	assert.Contains(t, out, "Imported 2 alarms")

	out = runCLI(t, "--alarms", other, "list")
	assert.Contains(t, out, "Wake up")
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("alarms_file: from-file.json\nalert_seconds: 10\ntheme: dark\n"), 0o644))

	var got *models.Config
	cmd := newCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		got, err = loadConfig(c)
		return err
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"alarm-clock", "--config", cfgFile, "--duration", "5s"}))

	assert.Equal(t, "from-file.json", got.AlarmsFile)
	assert.Equal(t, 5, got.AlertSeconds)
	assert.Equal(t, models.ThemeDark, got.Theme)
}

func TestAlertSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{400 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{5 * time.Second, 5},
		{0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, alertSeconds(tt.in))
		})
	}
}

func TestLoadConfig_SubSecondDuration(t *testing.T) {
	var got *models.Config
	cmd := newCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		got, err = loadConfig(c)
		return err
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"alarm-clock", "--duration", "400ms"}))
	assert.Equal(t, 1, got.AlertSeconds)
}

func TestPrintAlarms(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)

	var buf bytes.Buffer
	require.NoError(t, printAlarms(&buf, nil, now))
	assert.Equal(t, "No alarms set.\n", buf.String())

	buf.Reset()
	require.NoError(t, printAlarms(&buf, []models.Alarm{
		{ID: "1", Time: "07:30", Label: "Wake", Repeat: models.RepeatDaily, Enabled: true},
		{ID: "2", Time: "10:00", Label: "Call", Enabled: false},
	}, now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "07:30 tomorrow")
	assert.Contains(t, lines[2], "OFF")
	assert.True(t, strings.HasSuffix(lines[2], "-"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "wéééééé...", truncateString("wéééééééééééé", 10))
}

func TestApplyTheme(t *testing.T) {
	a := test.NewTempApp(t)

	applyTheme(a, models.ThemeDark)
	dark := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark)
	assert.Equal(t, dark, a.Settings().Theme().Color(theme.ColorNameBackground, theme.VariantLight))

	applyTheme(a, models.ThemeLight)
	light := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight)
	assert.Equal(t, light, a.Settings().Theme().Color(theme.ColorNameBackground, theme.VariantDark))
}

func TestLoadSettings_FlagsNotSaved(t *testing.T) {
	a := test.NewTempApp(t)
	prefs := store.NewConfigStore(a.Preferences())

	saved := models.NewDefaultConfig()
	saved.SoundFile = "/tmp/saved.wav"
	prefs.Save(saved)

	settings, effective := loadSettings(prefs, models.NewDefaultConfig(), func(c *models.Config) {
		c.SoundFile = "/tmp/flag.wav"
		c.AlertSeconds = 9
	})
	assert.Equal(t, "/tmp/flag.wav", effective.SoundFile)
	assert.Equal(t, 9, effective.AlertSeconds)
	assert.Equal(t, "/tmp/saved.wav", settings.SoundFile)
	assert.Equal(t, 3, settings.AlertSeconds)

	// Saving from the settings dialog keeps the flag values out of preferences
	settings.Theme = models.ThemeDark
	prefs.Save(settings)
	got := prefs.Load(models.NewDefaultConfig())
	assert.Equal(t, "/tmp/saved.wav", got.SoundFile)
	assert.Equal(t, 3, got.AlertSeconds)
}

type recordingPlayer struct {
	mu    sync.Mutex
	sound []string
}

func (p *recordingPlayer) Play(soundPath string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sound = append(p.sound, soundPath)
	return nil
}

func TestAlarmClock_RingsThroughQueue(t *testing.T) {
	cfg := models.NewDefaultConfig()
	cfg.AlarmsFile = filepath.Join(t.TempDir(), "alarms.json")
	cfg.SoundFile = "/tmp/bell.wav"

	player := &recordingPlayer{}
	ac := NewAlarmClock(cfg, zerolog.Nop(), player)

	once, err := ac.store.Add("07:30", "Once", models.RepeatNone)
	require.NoError(t, err)
	daily, err := ac.store.Add("07:30", "Daily", models.RepeatDaily)
	require.NoError(t, err)

	rung := make(chan models.Alarm, 4)
	ac.ringer.OnRing(func(a models.Alarm) { rung <- a })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ac.Run(ctx) }()

	ids := ac.scheduler.Tick(time.Date(2026, time.March, 10, 7, 30, 0, 0, time.Local))
	assert.Equal(t, []string{once.ID, daily.ID}, ids)

	var got []models.Alarm
	for i := 0; i < 2; i++ {
		select {
		case a := <-rung:
			got = append(got, a)
		case <-time.After(2 * time.Second):
			t.Fatal("alarm did not ring")
		}
	}
	cancel()
	require.NoError(t, <-done)

	// Rings run one at a time in fired order
	assert.Equal(t, once.ID, got[0].ID)
	assert.False(t, got[0].Enabled)
	assert.Equal(t, daily.ID, got[1].ID)
	assert.True(t, got[1].Enabled)
	assert.Equal(t, []string{"/tmp/bell.wav", "/tmp/bell.wav"}, player.sound)

	stored, ok := ac.store.Get(once.ID)
	require.True(t, ok)
	assert.False(t, stored.Enabled)
}
