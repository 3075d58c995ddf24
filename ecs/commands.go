package ecs

// maxFlushPasses bounds how many times a flush re-runs when callbacks keep queueing
// more work. Anything left over is carried into the next frame's flush.
const maxFlushPasses = 16

// Commands buffers structural work that must not happen while systems iterate:
// entity destruction and deferred callbacks. The buffer is flushed once per frame
// after the post-update publish.
type Commands struct {
	removals []*Entity
	defers   []func()

	// spare buffers swapped in during a flush so callbacks can keep queueing
	spareRemovals []*Entity
	spareDefers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues fn to run at the next flush, after queued entities are destroyed.
func (c *Commands) Defer(fn func()) {
	if fn == nil {
		return
	}
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.removals) + len(c.defers)
}

func (c *Commands) queueRemoval(e *Entity) {
	c.removals = append(c.removals, e)
}

// flush destroys queued entities, then runs deferred callbacks. Work queued by hooks
// or callbacks during the flush is processed in a further pass.
func (c *Commands) flush(m *EntityManager) {
	for pass := 0; c.Len() > 0; pass++ {
		if pass == maxFlushPasses {
			m.log.Warn("flush did not settle, carrying work to next frame")
			return
		}

		removals, defers := c.removals, c.defers
		c.removals, c.defers = c.spareRemovals[:0], c.spareDefers[:0]

		for _, e := range removals {
			m.destroy(e)
		}
		if len(removals) > 0 {
			m.compact()
		}

		for _, fn := range defers {
			m.runDeferred(fn)
		}

		clear(removals)
		clear(defers)
		c.spareRemovals, c.spareDefers = removals[:0], defers[:0]
	}
}
