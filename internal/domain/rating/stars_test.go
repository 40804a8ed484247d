package rating

import "testing"

func TestCount(t *testing.T) {
	tests := []struct {
		rating            float64
		full, half, empty int
	}{
		{4.3, 4, 0, 1},
		{4.6, 4, 1, 0},
		{4.5, 4, 1, 0},
		{5.0, 5, 0, 0},
		{1.0, 1, 0, 4},
		{1.49, 1, 0, 4},
		{0, 0, 0, 5},
		{7.2, 5, 0, 0},
	}

	for _, tt := range tests {
		full, half, empty := Count(tt.rating)
		if full != tt.full || half != tt.half || empty != tt.empty {
			t.Fatalf("rating %.2f: expected %d/%d/%d, got %d/%d/%d", tt.rating, tt.full, tt.half, tt.empty, full, half, empty)
		}
		if full+half+empty != MaxStars {
			t.Fatalf("rating %.2f: stars do not sum to %d", tt.rating, MaxStars)
		}
	}
}

func TestStrings(t *testing.T) {
	got := Strings(3.7)
	want := []string{"full", "full", "full", "half", "empty"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected stars: %v", got)
		}
	}
}
