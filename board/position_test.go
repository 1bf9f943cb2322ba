package board

import "testing"

func TestPositionFor(t *testing.T) {
	tests := []struct {
		index int
		want  int
	}{
		{index: 0, want: 1000},
		{index: 1, want: 2000},
		{index: 41, want: 42000},
		{index: 998, want: 999000},
		{index: 999, want: MaxPosition},
		{index: 5000, want: MaxPosition},
	}
	for _, tt := range tests {
		if got := PositionFor(tt.index); got != tt.want {
			t.Fatalf("PositionFor(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}
