package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAfterFunc(t *testing.T) {
	w := New(time.Millisecond, 32)
	defer w.Stop()

	fired := make(chan struct{})
	w.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestStoppedTimerNeverFires(t *testing.T) {
	w := New(time.Millisecond, 32)
	defer w.Stop()

	fired := make(chan struct{}, 1)
	timer := w.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })

	assert.True(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDefaults(t *testing.T) {
	w := New(0, 0)
	defer w.Stop()

	fired := make(chan struct{})
	w.AfterFunc(0, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}
