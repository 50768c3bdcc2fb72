package gormrepo

import (
	"sync"
	"time"
)

// Clock hands out UTC creation stamps that never go backwards, even if the
// wall clock does.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewClock() *Clock { return &Clock{now: time.Now} }

// NewClockFunc is NewClock with a custom time source.
func NewClockFunc(now func() time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}
