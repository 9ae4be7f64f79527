package list

import (
	"errors"
	"testing"

	"able/kernel-go/pkg/runtime"
)

type countingObserver struct {
	appends int
	grows   int
	lastCap int
}

func (c *countingObserver) ObserveAppend() { c.appends++ }

func (c *countingObserver) ObserveGrow(_, newCap int) {
	c.grows++
	c.lastCap = newCap
}

func TestListStartsEmpty(t *testing.T) {
	l := New[runtime.Value]()
	if l.Len() != 0 {
		t.Fatalf("Len = %d, want 0", l.Len())
	}
	if l.Cap() != 0 {
		t.Fatalf("Cap = %d, want 0 (no buffer)", l.Cap())
	}
	if _, err := l.At(0); !errors.Is(err, runtime.ErrIndexOutOfRange) {
		t.Fatalf("At(0) on empty list: expected index error, got %v", err)
	}
}

func TestListAppendThreeHandles(t *testing.T) {
	h1 := &runtime.HostHandleValue{HandleType: "h1"}
	h2 := &runtime.HostHandleValue{HandleType: "h2"}
	h3 := &runtime.HostHandleValue{HandleType: "h3"}

	l := New[runtime.Value]()
	for _, h := range []runtime.Value{h1, h2, h3} {
		if err := l.Append(h); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	for idx, want := range []runtime.Value{h1, h2, h3} {
		got, err := l.At(idx)
		if err != nil {
			t.Fatalf("At(%d): %v", idx, err)
		}
		if !runtime.Equal(got, want) {
			t.Fatalf("At(%d) = %s, want %s", idx, runtime.Describe(got), runtime.Describe(want))
		}
	}

	_, err := l.At(3)
	var idxErr *runtime.IndexError
	if !errors.As(err, &idxErr) {
		t.Fatalf("At(3): expected *IndexError, got %v", err)
	}
	if idxErr.Index != 3 || idxErr.Length != 3 || idxErr.Container != "list" {
		t.Fatalf("unexpected index error %#v", idxErr)
	}
}

func TestListRejectsOutOfRangeIndices(t *testing.T) {
	l := New[int]()
	for i := 0; i < 4; i++ {
		_ = l.Append(i * 10)
	}
	for _, idx := range []int{-1, -100, 4, 5, 1 << 30} {
		if _, err := l.At(idx); !errors.Is(err, runtime.ErrIndexOutOfRange) {
			t.Fatalf("At(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestListAppendPreservesOrder(t *testing.T) {
	for _, growth := range []Growth{GrowDoubling, GrowExact} {
		l := New[int](WithGrowth(growth))
		const n = 257
		for i := 0; i < n; i++ {
			if err := l.Append(i); err != nil {
				t.Fatalf("%s: Append(%d): %v", growth, i, err)
			}
			if l.Len() != i+1 {
				t.Fatalf("%s: Len = %d after %d appends", growth, l.Len(), i+1)
			}
		}
		for i := 0; i < n; i++ {
			got, err := l.At(i)
			if err != nil || got != i {
				t.Fatalf("%s: At(%d) = %d, %v", growth, i, got, err)
			}
		}
	}
}

func TestListExactGrowthReallocatesEveryAppend(t *testing.T) {
	obs := &countingObserver{}
	l := New[int](WithGrowth(GrowExact), WithObserver(obs))
	for i := 0; i < 10; i++ {
		_ = l.Append(i)
		if l.Cap() != l.Len() {
			t.Fatalf("exact growth: Cap = %d, Len = %d", l.Cap(), l.Len())
		}
	}
	if obs.grows != 10 || obs.appends != 10 {
		t.Fatalf("observer saw %d grows / %d appends, want 10 / 10", obs.grows, obs.appends)
	}
}

func TestListDoublingGrowthAmortizes(t *testing.T) {
	obs := &countingObserver{}
	l := New[int](WithObserver(obs))
	for i := 0; i < 1024; i++ {
		_ = l.Append(i)
	}
	if l.Cap() < l.Len() {
		t.Fatalf("Cap %d < Len %d", l.Cap(), l.Len())
	}
	// 1, 2, 4, ... 1024
	if obs.grows != 11 {
		t.Fatalf("doubling growth reallocated %d times, want 11", obs.grows)
	}
	if obs.lastCap != 1024 {
		t.Fatalf("last capacity = %d, want 1024", obs.lastCap)
	}
}

func TestListMaxLen(t *testing.T) {
	l := New[int](WithMaxLen(2))
	if err := l.Append(1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(2); err != nil {
		t.Fatalf("Append: %v", err)
	}
	err := l.Append(3)
	if !errors.Is(err, runtime.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("failed append changed length to %d", l.Len())
	}
	if l.Cap() > 2 {
		t.Fatalf("Cap %d exceeds max len", l.Cap())
	}
}

func TestListItemsIsACopy(t *testing.T) {
	l := New[int]()
	_ = l.Append(1)
	items := l.Items()
	items[0] = 99
	if got, _ := l.At(0); got != 1 {
		t.Fatalf("mutating Items() leaked into list: At(0) = %d", got)
	}
}

func TestListZeroValueIsUsable(t *testing.T) {
	var l List[string]
	if err := l.Append("a"); err != nil {
		t.Fatalf("Append on zero value: %v", err)
	}
	if got, err := l.At(0); err != nil || got != "a" {
		t.Fatalf("At(0) = %q, %v", got, err)
	}
	if l.Growth() != GrowDoubling {
		t.Fatalf("zero value growth = %s", l.Growth())
	}
}

func TestParseGrowth(t *testing.T) {
	cases := map[string]Growth{"": GrowDoubling, "doubling": GrowDoubling, "exact": GrowExact}
	for name, want := range cases {
		got, err := ParseGrowth(name)
		if err != nil || got != want {
			t.Fatalf("ParseGrowth(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseGrowth("tripling"); err == nil {
		t.Fatalf("expected error for unknown growth policy")
	}
}
