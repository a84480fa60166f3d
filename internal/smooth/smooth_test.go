package smooth

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestRing(t *testing.T) {
	t.Run("keeps insertion order until full", func(t *testing.T) {
		r := NewRing[int](3)
		r.Push(1)
		r.Push(2)

		if r.Len() != 2 || r.Full() {
			t.Fatalf("Len() = %d, Full() = %v", r.Len(), r.Full())
		}
		if got := r.Values(); got[0] != 1 || got[1] != 2 {
			t.Errorf("Values() = %v, want [1 2]", got)
		}
	})

	t.Run("evicts the oldest on overflow", func(t *testing.T) {
		r := NewRing[int](3)
		for i := 1; i <= 3; i++ {
			if _, evicted := r.Push(i); evicted {
				t.Fatalf("push %d should not evict", i)
			}
		}

		old, evicted := r.Push(4)
		if !evicted || old != 1 {
			t.Errorf("Push(4) evicted (%d, %v), want (1, true)", old, evicted)
		}
		if r.Len() != 3 {
			t.Errorf("size must stay at capacity, got %d", r.Len())
		}
		want := []int{2, 3, 4}
		for i, v := range r.Values() {
			if v != want[i] {
				t.Errorf("Values()[%d] = %d, want %d", i, v, want[i])
			}
		}
		if last, _ := r.Last(); last != 4 {
			t.Errorf("Last() = %d, want 4", last)
		}
	})

	t.Run("size is at least one", func(t *testing.T) {
		r := NewRing[string](0)
		r.Push("a")
		r.Push("b")
		if r.Cap() != 1 || r.At(0) != "b" {
			t.Errorf("Cap() = %d, At(0) = %q", r.Cap(), r.At(0))
		}
	})

	t.Run("reset empties", func(t *testing.T) {
		r := NewRing[int](2)
		r.Push(1)
		r.Reset()
		if _, ok := r.Last(); ok || r.Len() != 0 {
			t.Error("expected empty ring after Reset")
		}
	})
}

func TestWindow_Mean(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		values []float64
		want   float64
	}{
		{"empty", 5, nil, 0},
		{"partial window", 5, []float64{2, 4, 6}, 4},
		{"exactly full", 3, []float64{1, 2, 3}, 2},
		{"oldest evicted", 3, []float64{100, 1, 2, 3}, 2},
		{"many evictions", 2, []float64{9, 9, 9, 10, 20}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.size)
			for _, v := range tt.values {
				w.Push(v)
			}
			if got := w.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Value() = %f, want %f", got, tt.want)
			}
			if w.Len() > tt.size {
				t.Errorf("Len() = %d exceeds size %d", w.Len(), tt.size)
			}
		})
	}
}

func TestPointWindow(t *testing.T) {
	w := NewPointWindow(2)
	w.Push(detector.Point3D{X: 0, Y: 0})
	w.Push(detector.Point3D{X: 10, Y: 20})
	w.Push(detector.Point3D{X: 20, Y: 40})

	got := w.Value()
	if got.X != 15 || got.Y != 30 {
		t.Errorf("Value() = %+v, want (15, 30)", got)
	}

	w.Reset()
	if w.Len() != 0 {
		t.Error("expected empty window after Reset")
	}
}

func TestVote(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"plurality wins", []string{"A", "A", "B", "A", "B"}, "A"},
		{"single value", []string{"B"}, "B"},
		{"tie keeps previous stable", []string{"A", "B"}, "A"},
		{"tie keeps previous after change", []string{"A", "A", "B", "B"}, "A"},
		{"new plurality replaces", []string{"A", "A", "B", "B", "B"}, "B"},
		{"window slides", []string{"A", "A", "A", "B", "B", "B", "C"}, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVote[string](5)
			var got string
			for _, val := range tt.values {
				got = v.Push(val)
			}
			if got != tt.want {
				t.Errorf("Push sequence %v = %q, want %q", tt.values, got, tt.want)
			}
			if stable, ok := v.Value(); !ok || stable != tt.want {
				t.Errorf("Value() = (%q, %v), want (%q, true)", stable, ok, tt.want)
			}
		})
	}
}

func TestVote_RecentWinsWithoutHistory(t *testing.T) {
	v := NewVote[int](3)
	if _, ok := v.Value(); ok {
		t.Fatal("expected no stable value before the first push")
	}

	v.Push(1)
	v.Reset()
	if _, ok := v.Value(); ok {
		t.Fatal("expected Reset to drop the stable value")
	}

	if got := v.Push(7); got != 7 {
		t.Errorf("Push(7) = %d, want 7", got)
	}
}
