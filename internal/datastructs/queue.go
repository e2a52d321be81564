package queue

import (
	"sync"
)

// CQueue is an unbounded FIFO whose Dequeue blocks until a value arrives
// or the queue is closed.
type CQueue[T any] struct {
	data   []T
	closed bool

	lock     *sync.Mutex
	notEmpty *sync.Cond
}

func NewCQueue[T any]() *CQueue[T] {
	var lock sync.Mutex
	return &CQueue[T]{
		data:     make([]T, 0),
		notEmpty: sync.NewCond(&lock),
		lock:     &lock,
	}
}

// Enqueue adds value at the back. It reports false once the queue is closed.
func (q *CQueue[T]) Enqueue(value T) bool {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return false
	}
	q.data = append(q.data, value)
	q.notEmpty.Signal()
	return true
}

// Dequeue takes the front value. After Close it drains what is left and
// then reports false.
func (q *CQueue[T]) Dequeue() (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	for len(q.data) == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	var res T
	if len(q.data) == 0 {
		return res, false
	}
	res = q.data[0]
	q.data = q.data[1:]
	return res, true
}

func (q *CQueue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.data)
}

func (q *CQueue[T]) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
}
