package jobs

import (
	"context"

	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

const dayMillis = 24 * 60 * 60 * 1000

type ShareholderRepository interface {
	DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error)
}

// RetentionCleaner deletes registrations older than Days. Zero days keeps
// everything.
type RetentionCleaner struct {
	Repo   ShareholderRepository
	Days   int
	Now    utils.Clock
	Events *events.Bus
}

func NewRetentionCleaner(repo ShareholderRepository, days int, bus *events.Bus) *RetentionCleaner {
	return &RetentionCleaner{
		Repo:   repo,
		Days:   days,
		Now:    utils.NowUTC,
		Events: bus,
	}
}

func (c *RetentionCleaner) Enabled() bool {
	return c.Days > 0
}

// Run performs one sweep and returns how many records were deleted.
func (c *RetentionCleaner) Run(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	cutoff := c.Now() - int64(c.Days)*dayMillis
	deleted, err := c.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Errorf("Retention: failed to delete registrations older than %s: %v", utils.FormatEpoch(cutoff), err)
		return 0, err
	}

	if deleted > 0 {
		log.Infof("Retention: deleted %d registrations older than %d days", deleted, c.Days)
		c.Events.Publish(ctx, &events.RetentionSwept{Cutoff: cutoff, Deleted: deleted})
	} else {
		log.Debugf("Retention: nothing older than %s", utils.FormatEpoch(cutoff))
	}
	return deleted, nil
}
