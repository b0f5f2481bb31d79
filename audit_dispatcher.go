package goCred

import (
	"context"
	"sync"
	"sync/atomic"
)

// Metadata keys that must never leave the process through an audit sink.
// Events are scrubbed on enqueue so a misbehaving caller cannot leak a
// plaintext credential into an external log store.
var auditScrubKeys = []string{
	"password",
	"confirm_password",
	"current_password",
}

type auditDispatcher struct {
	cfg      AuditConfig
	sink     AuditSink
	queue    chan AuditEvent
	quit     chan struct{}
	wg       sync.WaitGroup
	emitted  atomic.Uint64
	dropped  atomic.Uint64
	closed   atomic.Bool
	quitOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan AuditEvent, cfg.BufferSize),
		quit:  make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.quit:
			// Drain whatever was enqueued before Close.
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *auditDispatcher) deliver(event AuditEvent) {
	d.sink.Emit(context.Background(), event)
	d.emitted.Add(1)
}

// Emit describes the emit operation and its observable behavior.
//
// Emit scrubs credential material from the event metadata before handing the
// event to the sink goroutine. With DropIfFull set a full buffer increments
// the drop counter instead of blocking the credential operation.
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	scrubAuditMetadata(&event)

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close describes the close operation and its observable behavior.
//
// Close stops intake, drains the queued events through the sink, and waits for
// the delivery goroutine to exit. Further Emit calls are ignored.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.quitOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.wg.Wait()
	})
}

// Dropped describes the dropped operation and its observable behavior.
//
// Dropped reports how many events were discarded under DropIfFull backpressure.
// Dropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Emitted describes the emitted operation and its observable behavior.
//
// Emitted reports how many events were delivered to the sink so far.
// Emitted does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *auditDispatcher) Emitted() uint64 {
	if d == nil {
		return 0
	}
	return d.emitted.Load()
}

func scrubAuditMetadata(event *AuditEvent) {
	if len(event.Metadata) == 0 {
		return
	}
	for _, key := range auditScrubKeys {
		if _, ok := event.Metadata[key]; !ok {
			continue
		}
		// Copy before redacting; the caller may still hold the original map.
		scrubbed := make(map[string]string, len(event.Metadata))
		for k, v := range event.Metadata {
			scrubbed[k] = v
		}
		for _, k := range auditScrubKeys {
			delete(scrubbed, k)
		}
		event.Metadata = scrubbed
		return
	}
}
