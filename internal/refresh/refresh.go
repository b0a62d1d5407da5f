// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refresh re-runs a conversion job on a cron schedule and when
// wiki source files change.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"
)

// ErrNoTrigger is returned by New when neither a schedule nor a watch
// directory is configured.
var ErrNoTrigger = errors.New("refresh needs a schedule or a watch directory")

// Job is one refresh run.
type Job func(ctx context.Context) error

// Reasons passed to the job's log lines.
const (
	ReasonStart    = "start"
	ReasonSchedule = "schedule"
	ReasonChange   = "change"
)

// DefaultExtensions are the source file extensions that trigger a run.
var DefaultExtensions = []string{".txt", ".page"}

// Config controls when the job runs.
type Config struct {
	// Schedule is a standard cron spec or descriptor ("@every 5m",
	// "0 3 * * *"). Empty disables scheduled runs.
	Schedule string

	// WatchDir is watched for changes to source files. Empty disables
	// watching.
	WatchDir string

	// Debounce is how long the directory must stay quiet after a change
	// before the job runs.
	Debounce time.Duration

	// RunOnStart runs the job once as soon as Run is called.
	RunOnStart bool

	// Extensions limits which changed files count (default
	// DefaultExtensions).
	Extensions []string
}

// Scheduler serializes job runs. A trigger that arrives while the job is
// running is held until it finishes; further triggers in that window are
// merged into the held one.
type Scheduler struct {
	cfg     Config
	job     Job
	logger  hclog.Logger
	pending chan string

	mu   sync.Mutex
	runs int
}

// New validates cfg and returns a Scheduler for job. A nil logger discards
// output.
func New(cfg Config, job Job, logger hclog.Logger) (*Scheduler, error) {
	if cfg.Schedule == "" && cfg.WatchDir == "" {
		return nil, ErrNoTrigger
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return nil, fmt.Errorf("parsing schedule %q: %w", cfg.Schedule, err)
		}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scheduler{
		cfg:     cfg,
		job:     job,
		logger:  logger,
		pending: make(chan string, 1),
	}, nil
}

// Trigger requests a run. It never blocks; a request is dropped when one is
// already pending.
func (s *Scheduler) Trigger(reason string) {
	select {
	case s.pending <- reason:
	default:
		s.logger.Debug("refresh already pending", "reason", reason)
	}
}

// Runs returns the number of completed job runs.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Run starts the schedule and the watcher and executes triggered jobs one
// at a time until ctx is cancelled. Job errors are logged, not returned.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.cfg.Schedule, func() { s.Trigger(ReasonSchedule) }); err != nil {
			return fmt.Errorf("adding schedule: %w", err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
		s.logger.Info("schedule started", "spec", s.cfg.Schedule)
	}

	if s.cfg.WatchDir != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(s.cfg.WatchDir); err != nil {
			return fmt.Errorf("watching %s: %w", s.cfg.WatchDir, err)
		}
		s.logger.Info("watching", "dir", s.cfg.WatchDir)

		go s.watch(ctx, watcher)
	}

	if s.cfg.RunOnStart {
		s.Trigger(ReasonStart)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case reason := <-s.pending:
			s.runJob(ctx, reason)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, reason string) {
	start := time.Now()
	s.logger.Info("refresh started", "reason", reason)

	err := s.job(ctx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("refresh failed", "reason", reason, "error", err)
		return
	}
	s.logger.Info("refresh finished", "reason", reason, "elapsed", time.Since(start))
}

func (s *Scheduler) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	fire := func() { s.Trigger(ReasonChange) }
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug("source changed", "op", event.Op.String(), "file", filepath.Base(event.Name))

			if s.cfg.Debounce <= 0 {
				fire()
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(s.cfg.Debounce, fire)
			} else {
				timer.Reset(s.cfg.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watch error", "error", err)
		}
	}
}

func (s *Scheduler) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, want := range s.cfg.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
