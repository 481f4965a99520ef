package history

import (
	"encoding/json"
	"testing"
)

func TestBoundedEvictsOldestFirst(t *testing.T) {
	buf := New[int](300)
	for i := 0; i < 450; i++ {
		buf.Append(i)
		if buf.Len() > 300 {
			t.Fatalf("length %d exceeds cap after %d appends", buf.Len(), i+1)
		}
	}
	values := buf.Values()
	if len(values) != 300 {
		t.Fatalf("expected 300 values, got %d", len(values))
	}
	if values[0] != 150 || values[299] != 449 {
		t.Fatalf("expected window [150..449], got [%d..%d]", values[0], values[299])
	}
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			t.Fatalf("order broken at %d: %d after %d", i, values[i], values[i-1])
		}
	}
}

func TestBoundedLedgerCap(t *testing.T) {
	buf := New[string](500)
	for i := 0; i < 501; i++ {
		buf.Append("x")
	}
	if buf.Len() != 500 {
		t.Fatalf("expected 500, got %d", buf.Len())
	}
}

func TestBoundedLastAndTail(t *testing.T) {
	buf := New[int](3)
	if _, ok := buf.Last(); ok {
		t.Fatalf("expected no last value on empty buffer")
	}
	for _, v := range []int{1, 2, 3, 4} {
		buf.Append(v)
	}
	last, ok := buf.Last()
	if !ok || last != 4 {
		t.Fatalf("expected last 4, got %d", last)
	}
	tail := buf.Tail(2)
	if len(tail) != 2 || tail[0] != 4 || tail[1] != 3 {
		t.Fatalf("unexpected tail %v", tail)
	}
	if got := buf.Tail(10); len(got) != 3 {
		t.Fatalf("expected tail clamped to 3, got %d", len(got))
	}
}

func TestBoundedFromTrimsFront(t *testing.T) {
	buf := From(2, []int{1, 2, 3})
	values := buf.Values()
	if len(values) != 2 || values[0] != 2 || values[1] != 3 {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestBoundedJSON(t *testing.T) {
	buf := From(3, []int{7, 8})
	data, err := json.Marshal(buf)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[7,8]" {
		t.Fatalf("unexpected json %s", data)
	}

	decoded := New[int](2)
	if err := json.Unmarshal([]byte("[1,2,3,4]"), decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Cap() != 2 {
		t.Fatalf("capacity changed to %d", decoded.Cap())
	}
	values := decoded.Values()
	if len(values) != 2 || values[0] != 3 || values[1] != 4 {
		t.Fatalf("unexpected decoded values %v", values)
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = New[int](0)
}
