package aio

import (
	"sync"

	"go.uber.org/zap"
)

// recordingLogger is an AssertionLogger that records fatal messages instead
// of aborting the process, so tests can exercise precondition violations.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLogger) Fatal(msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}
