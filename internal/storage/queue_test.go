package storage

import (
	"errors"
	"sync"
	"testing"
)

func TestSaveQueueRunsInOrder(t *testing.T) {
	q := NewSaveQueue()
	defer q.Close()

	var mu sync.Mutex
	var order []int

	chans := make([]<-chan error, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		chans = append(chans, q.Enqueue(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, ch := range chans {
		if err := <-ch; err != nil {
			t.Fatalf("Enqueue() save failed: %v", err)
		}
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("saves ran out of order: %v", order)
		}
	}
}

func TestSaveQueueDoReturnsError(t *testing.T) {
	q := NewSaveQueue()
	defer q.Close()

	want := errors.New("disk full")
	if got := q.Do(func() error { return want }); !errors.Is(got, want) {
		t.Errorf("Do() error = %v, want %v", got, want)
	}

	// A failed save does not wedge the queue.
	if err := q.Do(func() error { return nil }); err != nil {
		t.Errorf("Do() after failure = %v, want nil", err)
	}
}
