package roamauth

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher moves audit events from the hot path to the configured sink
// on a dedicated goroutine. Emit never blocks when DropIfFull is set; dropped
// events are counted instead.
type auditDispatcher struct {
	cfg  AuditConfig
	sink AuditSink

	ch   chan AuditEvent
	done chan struct{}
	wg   sync.WaitGroup

	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// newAuditDispatcher returns nil when auditing is disabled; all dispatcher
// methods tolerate a nil receiver.
func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	d := &auditDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan AuditEvent, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	ctx := context.Background()
	for {
		select {
		case ev := <-d.ch:
			d.sink.Emit(ctx, ev)
		case <-d.done:
			// Drain whatever was already buffered before exiting.
			for {
				select {
				case ev := <-d.ch:
					d.sink.Emit(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

// Emit hands an event to the dispatcher. With DropIfFull set a full buffer
// drops the event and bumps the drop counter; otherwise Emit blocks until
// there is room or the dispatcher closes.
func (d *auditDispatcher) Emit(ev AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- ev:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- ev:
	case <-d.done:
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Close stops the dispatcher after flushing buffered events. Safe to call
// more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}
