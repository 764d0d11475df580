package quiltarena

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// core is the part shared by both arenas: registry, budget, logging and teardown.
type core struct {
	reg    registry
	opts   options
	closed atomic.Bool
}

func (c *core) init(name string, optFns []Option) {
	c.opts = defaultOptions()
	for _, fn := range optFns {
		fn(&c.opts)
	}
	c.opts.logger = c.opts.logger.WithArena(name)
}

// reserve charges n bytes to the memory budget. With WithBudgetWait it
// blocks until other holders of the controller give memory back.
func (c *core) reserve(path string, n int64) error {
	rc := c.opts.controller
	if c.opts.budgetWait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.budgetWait)
		defer cancel()
		if err := rc.AcquireMemory(ctx, n); err != nil {
			return c.budgetError(path, n, err)
		}
		return nil
	}
	if !rc.TryAcquireMemory(n) {
		return c.budgetError(path, n, nil)
	}
	return nil
}

func (c *core) budgetError(path string, n int64, cause error) error {
	err := fmt.Errorf("%w: %d bytes requested, limit %d", ErrBudgetExceeded, n, c.opts.controller.MemoryLimit())
	if cause != nil && !errors.Is(cause, ErrBudgetExceeded) {
		err = fmt.Errorf("%w: %w", err, cause)
	}
	return &LoadError{Kind: KindBudget, Op: "reserve", Path: path, Err: err}
}

// commit registers res. If the arena was closed in the meantime the
// resource is released here, so it can never leak.
func (c *core) commit(res *entry) (View, error) {
	id, err := c.reg.register(res)
	if err != nil {
		c.discard(res)
		return View{}, err
	}
	return View{res: res, id: id}, nil
}

func (c *core) discard(res *entry) {
	_ = res.release()
	c.opts.controller.ReleaseMemory(res.reserved)
}

// observe records metrics and logs for a finished operation.
func (c *core) observe(op Op, path string, start time.Time, v View, err error) (View, error) {
	c.opts.metricsCollector.RecordLoad(op, v.Len(), time.Since(start), err)
	c.opts.logger.LogLoad(context.Background(), op, path, v.Len(), err)
	return v, err
}

// ownedFrom registers a copy-free owned buffer after charging its size.
func (c *core) ownedFrom(path string, data []byte) (View, error) {
	if err := c.reserve(path, int64(len(data))); err != nil {
		return View{}, err
	}
	res := newOwned(data)
	res.reserved = int64(len(data))
	return c.commit(res)
}

// lstat describes path without following a final symbolic link.
func (c *core) lstat(path string) (os.FileInfo, error) {
	return c.opts.fs.Lstat(path)
}

func (c *core) loadSymlinkTarget(path string) (View, error) {
	if c.closed.Load() {
		return View{}, ErrClosed
	}
	target, err := c.opts.fs.Readlink(path)
	if err != nil {
		return View{}, &LoadError{Kind: KindReadlink, Op: "readlink", Path: path, Err: err}
	}
	// Raw link text in the platform's path encoding, no normalization.
	return c.ownedFrom(path, []byte(target))
}

// LoadSymlinkTarget implements Arena.
func (c *core) LoadSymlinkTarget(path string) (View, error) {
	start := time.Now()
	v, err := c.loadSymlinkTarget(path)
	return c.observe(OpLoadSymlinkTarget, path, start, v, err)
}

// Adopt implements Arena.
func (c *core) Adopt(data []byte) (View, error) {
	start := time.Now()
	var (
		v   View
		err error
	)
	if c.closed.Load() {
		err = ErrClosed
	} else {
		v, err = c.ownedFrom("", data)
	}
	return c.observe(OpAdopt, "", start, v, err)
}

// Stats implements Arena. After Close it reports an empty arena.
func (c *core) Stats() Stats {
	return c.reg.snapshot()
}

// Close implements Arena. It is idempotent. Release failures do not stop
// the teardown; they are joined and returned.
func (c *core) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	resources := c.reg.drain()

	var (
		errs  []error
		bytes int64
	)
	for _, res := range resources {
		if err := res.release(); err != nil {
			errs = append(errs, err)
		}
		bytes += res.size()
		c.opts.controller.ReleaseMemory(res.reserved)
	}

	err := errors.Join(errs...)
	c.opts.metricsCollector.RecordRelease(len(resources), bytes)
	c.opts.logger.LogClose(context.Background(), len(resources), bytes, err)
	return err
}
