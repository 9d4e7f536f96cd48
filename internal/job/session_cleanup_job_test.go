package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) Purge(ctx context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestSessionCleanupJobRun(t *testing.T) {
	p := &fakePurger{}
	NewSessionCleanupJob(p).Run()
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("database is locked")
	NewSessionCleanupJob(p).Run()
	assert.Equal(t, 2, p.calls)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	_, err := Schedule("every now and then", NewSessionCleanupJob(&fakePurger{}))
	assert.Error(t, err)

	c, err := Schedule("@every 1h", NewSessionCleanupJob(&fakePurger{}))
	assert.NoError(t, err)
	c.Stop()
}
