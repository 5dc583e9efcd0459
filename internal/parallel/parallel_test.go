package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapKeepsOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}

	results := Map(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 2, nil
	})

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Value != items[i]*2 || r.Err != nil {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestMapErrorsPerItem(t *testing.T) {
	boom := errors.New("boom")
	results := Map(context.Background(), []string{"ok", "bad", "ok"}, 2,
		func(_ context.Context, s string) (int, error) {
			if s == "bad" {
				return 0, boom
			}
			return len(s), nil
		})

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %+v", results)
	}
	if !errors.Is(results[1].Err, boom) {
		t.Errorf("results[1].Err = %v, want boom", results[1].Err)
	}
}

func TestMapBoundsWorkers(t *testing.T) {
	items := make([]int, 50)
	var running, peak atomic.Int32

	Map(context.Background(), items, 4, func(_ context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})

	if peak.Load() > 4 {
		t.Errorf("peak concurrency = %d, want <= 4", peak.Load())
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Map(ctx, []int{1, 2, 3}, 2, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n, nil
	})

	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancel", calls.Load())
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d err = %v, want context.Canceled", r.Index, r.Err)
		}
	}
}

func TestMapEmpty(t *testing.T) {
	if results := Map(context.Background(), nil, 4, func(_ context.Context, n int) (int, error) {
		return n, nil
	}); results != nil {
		t.Errorf("expected nil for empty input, got %v", results)
	}
}

func TestCollect(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	results := Collect(items, func(n int) (int, bool) {
		if n > 2 {
			return n * 10, true
		}
		return 0, false
	})

	want := []int{30, 40, 50}
	if len(results) != len(want) {
		t.Fatalf("expected %v, got %v", want, results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %d, want %d", i, results[i], want[i])
		}
	}
}

func TestCalculateWorkers(t *testing.T) {
	tests := []struct {
		name     string
		numItems int
		taskType TaskType
		minWant  int
		maxWant  int
	}{
		{"zero items", 0, FileProcessing, 0, 0},
		{"one item", 1, FileProcessing, 1, 1},
		{"few items", 3, FileProcessing, 1, 3},
		{"many items file", 100, FileProcessing, 1, 100},
		{"many items cpu", 100, CPUBound, 1, 100},
		{"many items io", 100, IOBound, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWorkers(tt.numItems, tt.taskType)
			if got < tt.minWant || got > tt.maxWant {
				t.Errorf("CalculateWorkers(%d, %s) = %d, want between %d and %d",
					tt.numItems, tt.taskType, got, tt.minWant, tt.maxWant)
			}
		})
	}
}
