package queue_test

import (
	"sync"
	"testing"

	queue "github.com/XJIeI5/keypad/internal/datastructs"
)

func TestFIFO(t *testing.T) {
	q := queue.NewCQueue[int]()
	for i := 0; i < 3; i++ {
		q.Enqueue(i)
	}
	if q.Len() != 3 {
		t.Fatalf("len %d, want 3", q.Len())
	}
	for want := 0; want < 3; want++ {
		if got, ok := q.Dequeue(); !ok || got != want {
			t.Errorf("dequeued %d %v, want %d", got, ok, want)
		}
	}
}

func TestCloseDrains(t *testing.T) {
	q := queue.NewCQueue[string]()
	q.Enqueue("a")
	q.Close()
	if q.Enqueue("b") {
		t.Error("enqueue after close should fail")
	}
	if v, ok := q.Dequeue(); !ok || v != "a" {
		t.Errorf("got %q %v, want a", v, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("closed empty queue should report false")
	}
}

func TestBlockingDequeue(t *testing.T) {
	q := queue.NewCQueue[int]()
	var (
		wg  sync.WaitGroup
		got []int
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			v, ok := q.Dequeue()
			if !ok {
				return
			}
			got = append(got, v)
		}
	}()
	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	q.Close()
	wg.Wait()
	if len(got) != 100 {
		t.Fatalf("consumed %d values, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("value %d at %d", v, i)
		}
	}
}
