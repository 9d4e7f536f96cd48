package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"cyberforum/internal/logger"
)

const cleanupTimeout = 30 * time.Second

// Purger drops expired sessions.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// SessionCleanupJob removes expired rows from the session table.
type SessionCleanupJob struct {
	purger Purger
}

// NewSessionCleanupJob creates a new session cleanup job
func NewSessionCleanupJob(p Purger) *SessionCleanupJob {
	return &SessionCleanupJob{purger: p}
}

// Run purges expired sessions
func (j *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	n, err := j.purger.Purge(ctx)
	if err != nil {
		logger.Warning("Failed to purge expired sessions:", err)
		return
	}
	if n > 0 {
		logger.Debugf("Purged %d expired sessions", n)
	}
}

// Schedule starts a cron scheduler running job on spec. The caller stops it.
func Schedule(spec string, job cron.Job) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
