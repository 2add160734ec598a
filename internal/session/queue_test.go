package session

import "testing"

func TestInboxOrder(t *testing.T) {
	q := NewInbox()
	if _, ok := q.Next(); ok {
		t.Fatal("Next on empty inbox reported ok")
	}

	q.Add("first")
	q.Add("second")
	q.Add("third")
	if got := q.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	want := []string{"first", "second", "third"}
	for _, w := range want {
		line, ok := q.Next()
		if !ok {
			t.Fatalf("Next ran dry before %q", w)
		}
		if line != w {
			t.Fatalf("Next = %q, want %q", line, w)
		}
	}
	if _, ok := q.Next(); ok {
		t.Fatal("drained inbox still yielded a line")
	}
}
