package domain

import "math"

const sedentaryActivityFactor = 1.2

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
// Returns false when the profile is missing a required field.
func BMR(p Profile) (float64, bool) {
	if !p.Complete() {
		return 0, false
	}
	bmr := 10**p.WeightKG + 6.25**p.HeightCM - 5*float64(*p.Age)
	if *p.Gender == "Male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, true
}

// DeriveDailyCalories applies the sedentary activity factor to BMR.
func DeriveDailyCalories(p Profile) (float64, bool) {
	bmr, ok := BMR(p)
	if !ok {
		return 0, false
	}
	return bmr * sedentaryActivityFactor, true
}

// Macros splits a calorie goal 30/40/30 into gram targets using 4/4/9 kcal
// per gram of protein, carbs and fat.
func Macros(dailyCalories float64) (protein, carbs, fats float64) {
	protein = round1(dailyCalories * 0.30 / 4)
	carbs = round1(dailyCalories * 0.40 / 4)
	fats = round1(dailyCalories * 0.30 / 9)
	return protein, carbs, fats
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// ApplyDerivedGoals fills the macro targets for the goal's calorie value.
func (g *CalorieGoal) ApplyDerivedGoals() {
	g.DailyProteinGoal, g.DailyCarbGoal, g.DailyFatGoal = Macros(g.DailyCalorieGoal)
}
