package shell

import (
	"strconv"
	"sync"
)

// tailBuffer is an io.Writer keeping only the last max bytes written.
// Both subprocess streams write into it concurrently.
type tailBuffer struct {
	mu        sync.Mutex
	max       int
	truncated int64
	buf       []byte
}

func newTailBuffer(maxBytes int) *tailBuffer {
	return &tailBuffer{max: maxBytes}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if overflow := len(b.buf) - b.max; overflow > 0 {
		b.truncated += int64(overflow)
		b.buf = b.buf[overflow:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated > 0 {
		return "... (" + strconv.FormatInt(b.truncated, 10) + " bytes truncated)\n" + string(b.buf)
	}
	return string(b.buf)
}
