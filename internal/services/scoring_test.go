package services

import "testing"

func TestPercentageScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		total    int
		expected float64
	}{
		{"perfect score", 10, 10, 100},
		{"partial score", 4, 10, 40},
		{"zero score", 0, 10, 0},
		{"zero total avoids division", 5, 0, 0},
		{"negative total treated as empty", 5, -1, 0},
		{"rounds to two decimals", 1, 3, 33.33},
		{"rounds half away from zero", 2, 3, 66.67},
		{"two sevenths", 2, 7, 28.57},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PercentageScore(tc.score, tc.total)
			if got != tc.expected {
				t.Errorf("PercentageScore(%d, %d) = %v, want %v", tc.score, tc.total, got, tc.expected)
			}
		})
	}
}

func TestAccuracyPercentage(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		studied  int
		expected float64
	}{
		{"all correct", 5, 5, 100},
		{"none correct", 0, 5, 0},
		{"no cards studied", 0, 0, 0},
		{"two of three", 2, 3, 66.67},
		{"one of six", 1, 6, 16.67},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AccuracyPercentage(tc.correct, tc.studied)
			if got != tc.expected {
				t.Errorf("AccuracyPercentage(%d, %d) = %v, want %v", tc.correct, tc.studied, got, tc.expected)
			}
		})
	}
}
