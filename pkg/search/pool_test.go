package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunInvokesEveryParticipant(t *testing.T) {
	p := NewPool(4)

	var mu sync.Mutex
	seen := map[int]bool{}

	p.Run(func(workerID int) {
		mu.Lock()
		seen[workerID] = true
		mu.Unlock()
	})

	assert.Len(t, seen, 5) // 4 workers + the caller
	for id := 0; id <= p.Workers(); id++ {
		assert.True(t, seen[id], "worker %d never ran", id)
	}
}

func TestPoolRunReentryPanics(t *testing.T) {
	p := NewPool(2)
	var ready sync.WaitGroup
	ready.Add(p.Workers() + 1)
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		p.Run(func(workerID int) {
			ready.Done()
			<-release
		})
		close(done)
	}()

	ready.Wait()
	assert.Panics(t, func() {
		p.Run(func(int) {})
	})
	close(release)
	<-done
}
