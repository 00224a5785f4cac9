package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_DefaultsInactive(t *testing.T) {
	assert.False(t, New().Get())
}

func TestSession_SetGet(t *testing.T) {
	s := New()
	s.Set(true)
	assert.True(t, s.Get())
	s.Set(false)
	assert.False(t, s.Get())
}

func TestSession_NilReceiverReadsInactive(t *testing.T) {
	var s *Session
	assert.NotPanics(t, func() {
		assert.False(t, s.Get())
	})
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.Set(v)
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = s.Get()
			}
		}()
	}
	wg.Wait()

	s.Set(true)
	assert.True(t, s.Get())
}
