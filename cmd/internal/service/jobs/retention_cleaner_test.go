package jobs

import (
	"context"
	"errors"
	"testing"

	"classaction/cmd/internal/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	cutoffs []int64
	deleted int64
	err     error
}

func (f *fakeRepo) DeleteOlderThan(_ context.Context, cutoff int64) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func TestRetentionCleanerComputesCutoff(t *testing.T) {
	repo := &fakeRepo{deleted: 3}
	var swept []*events.RetentionSwept
	bus := events.NewBus(events.HandlerFunc(func(_ context.Context, e events.Event) {
		swept = append(swept, e.(*events.RetentionSwept))
	}))
	bus.Dispatch = events.Inline

	c := NewRetentionCleaner(repo, 30, bus)
	c.Now = func() int64 { return 40 * dayMillis }

	deleted, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, []int64{10 * dayMillis}, repo.cutoffs)
	require.Len(t, swept, 1)
	assert.Equal(t, int64(3), swept[0].Deleted)
}

func TestRetentionCleanerDisabled(t *testing.T) {
	repo := &fakeRepo{}
	c := NewRetentionCleaner(repo, 0, nil)

	deleted, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, repo.cutoffs)
	assert.False(t, c.Enabled())
}

func TestRetentionCleanerReportsFailures(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk full")}
	c := NewRetentionCleaner(repo, 1, nil)

	_, err := c.Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestRunnerRejectsBadSpec(t *testing.T) {
	r := NewRunner()

	err := r.Add(context.Background(), "retention", "every tuesday", func(context.Context) {})
	assert.Error(t, err)

	require.NoError(t, r.Add(context.Background(), "retention", "@daily", func(context.Context) {}))
	assert.Equal(t, 1, r.Len())
}

func TestRunnerStopsWithContext(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		r.Start(ctx)
		close(done)
	}()
	cancel()
	<-done
}
