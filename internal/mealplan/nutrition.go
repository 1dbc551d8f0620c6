package mealplan

import (
	"math"
	"strconv"
)

// CalculateNutrition sums calories and macros across the plan, per day and
// on average. Macro strings that fail to parse count as zero; every day of
// the plan gets a row even when no meal landed on it.
func CalculateNutrition(plan *MealPlan) NutritionSummary {
	days := plan.Days
	if days < 1 {
		days = 1
	}

	daily := make([]DailyNutrition, days)
	for i := range daily {
		daily[i].Day = i + 1
	}

	var total NutritionTotals
	for _, meal := range plan.Meals {
		if meal.Day < 1 || meal.Day > days {
			continue
		}
		d := &daily[meal.Day-1]

		d.Calories += meal.Recipe.CaloriesKcal
		d.Protein += parseMacro(meal.Recipe.ProteinGrams)
		d.Carbs += parseMacro(meal.Recipe.CarbsGrams)
		d.Fat += parseMacro(meal.Recipe.FatGrams)

		total.Calories += meal.Recipe.CaloriesKcal
		total.Protein += parseMacro(meal.Recipe.ProteinGrams)
		total.Carbs += parseMacro(meal.Recipe.CarbsGrams)
		total.Fat += parseMacro(meal.Recipe.FatGrams)
	}

	return NutritionSummary{
		Total: total,
		Daily: daily,
		AverageDaily: AverageNutrition{
			Calories: int(math.Round(float64(total.Calories) / float64(days))),
			Protein:  int(math.Round(total.Protein / float64(days))),
			Carbs:    int(math.Round(total.Carbs / float64(days))),
			Fat:      int(math.Round(total.Fat / float64(days))),
		},
	}
}

func parseMacro(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
