package list

import "testing"

func TestQueue_Enqueue(t *testing.T) {
	q := &Queue[int]{}

	q.Enqueue(10)
	q.Enqueue(20)

	if q.Len() != 2 {
		t.Errorf("expected len 2, got %d", q.Len())
	}
}

func TestQueue_Dequeue(t *testing.T) {
	q := &Queue[int]{}

	q.Enqueue(10)
	q.Enqueue(20)
	q.Enqueue(30)

	value, ok := q.Dequeue()
	if !ok || value != 10 {
		t.Errorf("expected 10, got %d", value)
	}

	if q.Len() != 2 {
		t.Errorf("expected len 2, got %d", q.Len())
	}
}

func TestQueue_Dequeue_Empty(t *testing.T) {
	q := &Queue[int]{}

	_, ok := q.Dequeue()
	if ok {
		t.Errorf("expected ok false on empty queue")
	}
}

func TestQueue_Peek_DoesNotRemove(t *testing.T) {
	q := &Queue[int]{}
	q.Enqueue(10)
	q.Enqueue(20)

	value, ok := q.Peek()
	if !ok || value != 10 {
		t.Errorf("expected 10, got %d", value)
	}
	if q.Len() != 2 {
		t.Errorf("expected peek to leave len unchanged, got %d", q.Len())
	}
}

func TestQueue_EnqueueUnique(t *testing.T) {
	q := &Queue[int]{}

	if added := q.EnqueueUnique(10); !added {
		t.Errorf("expected first enqueue to succeed")
	}
	if added := q.EnqueueUnique(10); added {
		t.Errorf("expected duplicate enqueue to be a no-op")
	}
	if q.Len() != 1 {
		t.Errorf("expected len 1, got %d", q.Len())
	}
}

func TestQueue_Remove(t *testing.T) {
	q := &Queue[int]{}
	q.Enqueue(10)
	q.Enqueue(20)
	q.Enqueue(30)

	if !q.Remove(20) {
		t.Errorf("expected remove to succeed")
	}
	if q.Contains(20) {
		t.Errorf("expected 20 removed")
	}
	if q.Len() != 2 {
		t.Errorf("expected len 2, got %d", q.Len())
	}
}

func TestQueue_Remove_NotFound(t *testing.T) {
	q := &Queue[int]{}
	q.Enqueue(10)

	if q.Remove(99) {
		t.Errorf("expected remove of absent item to fail")
	}
}

func TestQueue_All_ReturnsCopyHeadFirst(t *testing.T) {
	q := &Queue[int]{}
	q.Enqueue(10)
	q.Enqueue(20)

	items := q.All()
	if len(items) != 2 || items[0] != 10 || items[1] != 20 {
		t.Errorf("expected [10 20], got %v", items)
	}

	items[0] = 999
	if v, _ := q.Peek(); v != 10 {
		t.Errorf("expected mutating the returned slice not to affect the queue")
	}
}
