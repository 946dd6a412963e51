package engine

import "container/heap"

// bookSide is a priority queue of resting orders ranked by one of the two
// side orderings. Orders leave only from the top, so entries carry no index
// bookkeeping, and a partial fill never changes price/id priority, so
// quantity mutations need no re-heapify.
type bookSide struct {
	orders     []*Order
	ranksAbove func(a, b *Order) bool
}

func newBookSide(ranksAbove func(a, b *Order) bool) *bookSide {
	return &bookSide{ranksAbove: ranksAbove}
}

func (b *bookSide) Len() int { return len(b.orders) }

func (b *bookSide) Less(i, j int) bool { return b.ranksAbove(b.orders[i], b.orders[j]) }

func (b *bookSide) Swap(i, j int) { b.orders[i], b.orders[j] = b.orders[j], b.orders[i] }

func (b *bookSide) Push(x any) { b.orders = append(b.orders, x.(*Order)) }

func (b *bookSide) Pop() any {
	old := b.orders
	n := len(old)
	order := old[n-1]
	old[n-1] = nil
	b.orders = old[:n-1]
	return order
}

// push inserts a resting order. The caller guarantees quantity > 0.
func (b *bookSide) push(order *Order) { heap.Push(b, order) }

// peekTop returns the highest-priority resting order, or nil when the side
// is empty.
func (b *bookSide) peekTop() *Order {
	if len(b.orders) == 0 {
		return nil
	}
	return b.orders[0]
}

// popTop discards the current top after it has been fully filled. Reaching
// it with an empty side is an engine bug, not a caller error.
func (b *bookSide) popTop() {
	if len(b.orders) == 0 {
		panic("engine: popTop on empty book side")
	}
	heap.Pop(b)
}

func (b *bookSide) size() int { return len(b.orders) }
