package main

import "sync"

// feed fans one event stream out to any number of websocket subscribers.
// Slow subscribers drop events instead of blocking the publisher.
type feed[T any] struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan T
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{subs: make(map[int64]chan T)}
}

func (f *feed[T]) subscribe(buffer int) (int64, <-chan T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ch := make(chan T, buffer)
	f.subs[f.nextID] = ch
	return f.nextID, ch
}

func (f *feed[T]) unsubscribe(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(ch)
	}
}

func (f *feed[T]) publish(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- value:
		default:
		}
	}
}
