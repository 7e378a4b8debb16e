package logger

import (
	"io"
	"sync"
)

type entry struct {
	buf   []byte
	flush chan struct{}
}

// QueueSink is a zapcore.WriteSyncer that funnels all writes through one
// consumer goroutine. Producers block when the queue is full rather than
// dropping lines. Close drains what is queued and waits for the consumer to
// exit; writes arriving after Close bypass the queue and go straight to the
// underlying writer, so a late logger (a signal handler racing shutdown)
// cannot panic on the closed queue.
type QueueSink struct {
	w       io.Writer
	mu      sync.RWMutex
	closed  bool
	entries chan entry
	done    chan struct{}
}

func NewQueueSink(w io.Writer, depth int) *QueueSink {
	s := &QueueSink{
		w:       w,
		entries: make(chan entry, depth),
		done:    make(chan struct{}),
	}
	go s.consume()
	return s
}

func (s *QueueSink) consume() {
	defer close(s.done)
	for e := range s.entries {
		if e.flush != nil {
			close(e.flush)
			continue
		}
		_, _ = s.w.Write(e.buf)
	}
}

// Write queues one encoded log line. The slice is copied: zap reuses its
// buffers after Write returns. After Close the consumer is gone, so the line
// is written directly instead of queued.
func (s *QueueSink) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return s.w.Write(p)
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	s.entries <- entry{buf: buf}
	return len(p), nil
}

// Sync blocks until everything queued before the call has been written.
// After Close the queue is already drained, so there is nothing to flush.
func (s *QueueSink) Sync() error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil
	}
	flushed := make(chan struct{})
	s.entries <- entry{flush: flushed}
	s.mu.RUnlock()
	<-flushed
	return nil
}

func (s *QueueSink) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()
	<-s.done
	return nil
}
