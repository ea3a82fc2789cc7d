package controller

import "math"

// ProgressState is the loading indicator lifecycle: running, then done for good.
type ProgressState int

const (
	ProgressRunning ProgressState = iota
	ProgressDone
)

func (s ProgressState) String() string {
	if s == ProgressDone {
		return "done"
	}
	return "running"
}

// Progress returns the loading indicator value in [0, 100] and its state.
func (c *Controller) Progress() (float64, ProgressState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress, c.progressState
}

// tick advances the indicator. Returning false ends the ticker.
func (c *Controller) tick() bool {
	c.mu.Lock()
	if c.closed || c.progressState == ProgressDone {
		c.mu.Unlock()
		return false
	}
	c.progress = math.Min(c.progress+c.random.Float64()*ProgressMaxStep, 100)
	if c.progress >= 100 {
		c.progressState = ProgressDone
	}
	value, state := c.progress, c.progressState
	c.mu.Unlock()

	for _, o := range c.observers {
		o.ProgressChanged(value, state)
	}
	return state == ProgressRunning
}
