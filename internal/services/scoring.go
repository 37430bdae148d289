package services

import "math"

// PercentageScore converts earned points into a percentage of the possible
// total, rounded to two decimals. A zero (or negative) total yields 0 rather
// than dividing by zero.
func PercentageScore(score, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return round2(100 * float64(score) / float64(totalPoints))
}

// AccuracyPercentage is the same rule over review counts instead of points.
func AccuracyPercentage(correct, studied int) float64 {
	if studied <= 0 {
		return 0
	}
	return round2(100 * float64(correct) / float64(studied))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
