package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RecordingNotifier implements notifications.Service and records every call
// so tests can assert which notifications fired.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []string
}

// Events returns a copy of the recorded notification descriptions.
func (r *RecordingNotifier) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Contains reports whether any recorded event starts with prefix.
func (r *RecordingNotifier) Contains(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if len(event) >= len(prefix) && event[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (r *RecordingNotifier) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *RecordingNotifier) NotifyVODQueued(_ context.Context, title, url string) error {
	r.record("queued:%s:%s", title, url)
	return nil
}

func (r *RecordingNotifier) NotifyVODFetched(_ context.Context, title string) error {
	r.record("fetched:%s", title)
	return nil
}

func (r *RecordingNotifier) NotifyCandidatesFound(_ context.Context, title string, count int) error {
	r.record("candidates:%s:%d", title, count)
	return nil
}

func (r *RecordingNotifier) NotifyAwaitingReview(_ context.Context, title string, count int) error {
	r.record("review:%s:%d", title, count)
	return nil
}

func (r *RecordingNotifier) NotifyClipPublished(_ context.Context, title, platform, url string) error {
	r.record("published:%s:%s:%s", title, platform, url)
	return nil
}

func (r *RecordingNotifier) NotifyQueueCompleted(_ context.Context, processed, failed int, duration time.Duration) error {
	r.record("queue-complete:%d:%d", processed, failed)
	return nil
}

func (r *RecordingNotifier) NotifyError(_ context.Context, err error, contextInfo string) error {
	r.record("error:%s:%v", contextInfo, err)
	return nil
}

func (r *RecordingNotifier) TestNotification(_ context.Context) error {
	r.record("test")
	return nil
}
