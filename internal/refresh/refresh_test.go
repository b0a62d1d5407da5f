package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runInBackground starts s.Run and returns a stop function that cancels it
// and waits for it to return.
func runInBackground(t *testing.T, s *Scheduler) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	stop := func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	}
	t.Cleanup(cancel)
	return stop
}

func TestNew(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		errText string
	}{
		{name: "nothing configured", cfg: Config{}, wantErr: ErrNoTrigger},
		{name: "bad schedule", cfg: Config{Schedule: "every now and then"}, errText: "parsing schedule"},
		{name: "descriptor", cfg: Config{Schedule: "@every 5m"}},
		{name: "five fields", cfg: Config{Schedule: "0 3 * * *"}},
		{name: "watch only", cfg: Config{WatchDir: t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, noop, nil)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, DefaultExtensions, s.cfg.Extensions)
			}
		})
	}
}

func TestRunOnStart(t *testing.T) {
	var calls atomic.Int32
	s, err := New(Config{Schedule: "@every 1h", RunOnStart: true}, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)

	stop := runInBackground(t, s)
	assert.Eventually(t, func() bool { return s.Runs() == 1 }, 2*time.Second, 10*time.Millisecond)
	stop()

	assert.Equal(t, int32(1), calls.Load())
}

func TestTriggersDuringRunAreCoalesced(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32

	s, err := New(Config{Schedule: "@every 1h", RunOnStart: true}, func(context.Context) error {
		if calls.Add(1) == 1 {
			started <- struct{}{}
			<-release
		}
		return nil
	}, nil)
	require.NoError(t, err)

	stop := runInBackground(t, s)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run did not start")
	}
	s.Trigger(ReasonChange)
	s.Trigger(ReasonChange)
	s.Trigger(ReasonSchedule)
	close(release)

	assert.Eventually(t, func() bool { return s.Runs() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	stop()

	assert.Equal(t, int32(2), calls.Load())
}

func TestJobErrorsDoNotStopScheduler(t *testing.T) {
	s, err := New(Config{Schedule: "@every 1h", RunOnStart: true}, func(context.Context) error {
		return errors.New("conversion failed")
	}, nil)
	require.NoError(t, err)

	stop := runInBackground(t, s)
	assert.Eventually(t, func() bool { return s.Runs() == 1 }, 2*time.Second, 10*time.Millisecond)

	s.Trigger(ReasonChange)
	assert.Eventually(t, func() bool { return s.Runs() == 2 }, 2*time.Second, 10*time.Millisecond)
	stop()
}

func TestScheduleTriggersRun(t *testing.T) {
	s, err := New(Config{Schedule: "@every 1s"}, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	stop := runInBackground(t, s)
	assert.Eventually(t, func() bool { return s.Runs() >= 1 }, 5*time.Second, 50*time.Millisecond)
	stop()
}

func TestWatchTriggersRun(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{WatchDir: dir, Debounce: 50 * time.Millisecond}, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	stop := runInBackground(t, s)

	// The watcher is registered asynchronously; keep touching the file until
	// a run is observed.
	path := filepath.Join(dir, "466F6F.txt")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("*Foo"), 0o644)
		return s.Runs() >= 1
	}, 5*time.Second, 100*time.Millisecond)
	stop()
}

func TestWatchMissingDir(t *testing.T) {
	s, err := New(Config{WatchDir: filepath.Join(t.TempDir(), "missing")}, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}

func TestRelevant(t *testing.T) {
	s, err := New(Config{WatchDir: "wiki"}, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write txt", fsnotify.Event{Name: "wiki/466F6F.txt", Op: fsnotify.Write}, true},
		{"create page", fsnotify.Event{Name: "wiki/Foo.page", Op: fsnotify.Create}, true},
		{"upper ext", fsnotify.Event{Name: "wiki/FOO.TXT", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "wiki/a.txt", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "wiki/a.txt", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "wiki/a.txt", Op: fsnotify.Chmod}, false},
		{"markdown", fsnotify.Event{Name: "wiki/a.md", Op: fsnotify.Write}, false},
		{"no ext", fsnotify.Event{Name: "wiki/backup", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.relevant(tt.event))
		})
	}
}

func TestCustomExtensions(t *testing.T) {
	s, err := New(Config{WatchDir: "wiki", Extensions: []string{".wiki"}}, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	assert.True(t, s.relevant(fsnotify.Event{Name: "a.wiki", Op: fsnotify.Write}))
	assert.False(t, s.relevant(fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}))
}
