package domain

import "testing"

func ptr[T any](v T) *T { return &v }

func TestBMRMale(t *testing.T) {
	p := Profile{
		WeightKG: ptr(80.0),
		HeightCM: ptr(180.0),
		Age:      ptr(30),
		Gender:   ptr("Male"),
	}
	bmr, ok := BMR(p)
	if !ok {
		t.Fatal("expected complete profile")
	}
	// 10*80 + 6.25*180 - 5*30 + 5 = 1780
	if bmr != 1780 {
		t.Fatalf("bmr = %v, want 1780", bmr)
	}
}

func TestBMRFemale(t *testing.T) {
	p := Profile{
		WeightKG: ptr(60.0),
		HeightCM: ptr(165.0),
		Age:      ptr(25),
		Gender:   ptr("Female"),
	}
	bmr, ok := BMR(p)
	if !ok {
		t.Fatal("expected complete profile")
	}
	// 10*60 + 6.25*165 - 5*25 - 161 = 1345.25
	if bmr != 1345.25 {
		t.Fatalf("bmr = %v, want 1345.25", bmr)
	}
}

func TestBMRIncompleteProfile(t *testing.T) {
	p := Profile{WeightKG: ptr(80.0)}
	if _, ok := BMR(p); ok {
		t.Fatal("expected incomplete profile to fail")
	}
}

func TestMacrosSplit(t *testing.T) {
	protein, carbs, fats := Macros(2000)
	if protein != 150 {
		t.Fatalf("protein = %v, want 150", protein)
	}
	if carbs != 200 {
		t.Fatalf("carbs = %v, want 200", carbs)
	}
	// 2000*0.30/9 = 66.666... rounds to 66.7
	if fats != 66.7 {
		t.Fatalf("fats = %v, want 66.7", fats)
	}
}

func TestDeriveDailyCaloriesSedentary(t *testing.T) {
	p := Profile{
		WeightKG: ptr(80.0),
		HeightCM: ptr(180.0),
		Age:      ptr(30),
		Gender:   ptr("Male"),
	}
	calories, ok := DeriveDailyCalories(p)
	if !ok {
		t.Fatal("expected complete profile")
	}
	if calories != 1780*1.2 {
		t.Fatalf("calories = %v, want %v", calories, 1780*1.2)
	}
}
