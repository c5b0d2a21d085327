package planner

import (
	"math"

	"child-meal-planner/internal/nutrition"
)

const (
	bandLow      = 0.9
	bandHigh     = 1.1
	overshootMin = 50.0
	daysPerWeek  = 7
	perfectScore = 100.0
)

// NutrientScore explains the score of one nutrient.
type NutrientScore struct {
	Nutrient nutrition.Nutrient `json:"nutrient"`
	Target   float64            `json:"target"`
	Achieved float64            `json:"achieved"`
	Ratio    float64            `json:"ratio"`
	Score    float64            `json:"score"`
}

// Score compares a week's per-child totals with seven days of targets.
// Each nutrient scores 100 inside [90%, 110%] of target, scales linearly
// below and loses one point per percent above, never under 50. The result
// is the mean over all nutrients rounded to one decimal.
func Score(weekly, daily nutrition.Nutrients) (float64, []NutrientScore) {
	breakdown := make([]NutrientScore, 0, len(nutrition.All))
	var sum float64

	for _, n := range nutrition.All {
		ns := NutrientScore{
			Nutrient: n,
			Target:   daily.Get(n) * daysPerWeek,
			Achieved: weekly.Get(n),
		}
		ns.Ratio, ns.Score = nutrientScore(ns.Achieved, ns.Target)
		breakdown = append(breakdown, ns)
		sum += ns.Score
	}

	mean := sum / float64(len(breakdown))
	return math.Round(mean*10) / 10, breakdown
}

func nutrientScore(achieved, target float64) (ratio, score float64) {
	if target <= 0 {
		return 1, perfectScore
	}
	ratio = achieved / target

	switch {
	case ratio < bandLow:
		score = ratio / bandLow * perfectScore
	case ratio > bandHigh:
		score = math.Max(overshootMin, perfectScore-(ratio-bandHigh)*100)
	default:
		score = perfectScore
	}
	return ratio, math.Max(0, math.Min(perfectScore, score))
}
