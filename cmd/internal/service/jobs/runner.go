package jobs

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

// Runner schedules jobs with standard cron specs ("0 3 * * *", "@daily").
// A job still running when its next tick comes is skipped.
type Runner struct {
	cron *cron.Cron
}

func NewRunner() *Runner {
	logger := cronLogger{}
	return &Runner{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
	}
}

// Add registers job under spec. ctx is handed to every run.
func (r *Runner) Add(ctx context.Context, name, spec string, job func(context.Context)) error {
	_, err := r.cron.AddFunc(spec, func() {
		log.Debugf("Cron: running %s", name)
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("jobs: schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

func (r *Runner) Len() int {
	return len(r.cron.Entries())
}

// Start runs the scheduler until ctx is done, then waits for running jobs.
func (r *Runner) Start(ctx context.Context) {
	log.Infof("Cron started with %d job(s)", r.Len())
	r.cron.Start()

	<-ctx.Done()
	log.Info("Stopping cron...")
	<-r.cron.Stop().Done()
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debugj(fields(keysAndValues, "msg", msg))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Errorj(fields(keysAndValues, "msg", msg, "error", err.Error()))
}

func fields(keysAndValues []any, extra ...any) log.JSON {
	out := log.JSON{}
	kv := append(extra, keysAndValues...)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
