package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
)

func documentPlan() *mealplan.MealPlan {
	return &mealplan.MealPlan{
		PlanName:           "Cut Week",
		FitnessGoal:        "weight_loss",
		DailyCalorieTarget: 1800,
		Days:               1,
		MealsPerDay:        2,
		Meals: []mealplan.MealSlot{
			{
				Day: 1, MealNumber: 1, MealType: "breakfast",
				Recipe: mealplan.RecipeSnapshot{
					Name: "Oatmeal", CaloriesKcal: 400,
					ProteinGrams: "20", CarbsGrams: "60", FatGrams: "8",
					PrepTimeMinutes: 10, Servings: 1,
					Ingredients: []mealplan.Ingredient{{Name: "oats", Amount: "1", Unit: "cup"}},
				},
			},
			{
				Day: 1, MealNumber: 2, MealType: "dinner",
				Recipe: mealplan.RecipeSnapshot{
					Name: "Salmon <script>alert(1)</script> Plate", CaloriesKcal: 600,
					ProteinGrams: "45", CarbsGrams: "30", FatGrams: "25",
					PrepTimeMinutes: 25, Servings: 1,
					Ingredients: []mealplan.Ingredient{{Name: "salmon", Amount: "200", Unit: "g"}},
				},
			},
		},
	}
}

func TestGenerateCSV(t *testing.T) {
	data, err := NewGenerator().Generate(documentPlan(), FormatCSV)
	if err != nil {
		t.Fatalf("Generate(csv): %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	wantHeader := []string{"day", "meal_number", "meal_type", "recipe", "calories_kcal", "protein_g", "carbs_g", "fat_g", "prep_time_min"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	if rows[1][3] != "Oatmeal" || rows[1][4] != "400" {
		t.Errorf("unexpected first meal row: %v", rows[1])
	}
	if rows[2][0] != "1" || rows[2][1] != "2" || rows[2][2] != "dinner" {
		t.Errorf("unexpected second meal row: %v", rows[2])
	}
}

func TestGeneratePDF(t *testing.T) {
	data, err := NewGenerator().Generate(documentPlan(), FormatPDF)
	if err != nil {
		t.Fatalf("Generate(pdf): %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", data[:12])
	}
}

func TestGeneratePDFWithMealPrep(t *testing.T) {
	plan := documentPlan()
	plan.StartOfWeekMealPrep = &mealplan.MealPrepPlan{
		TotalPrepTime: 45,
		ShoppingList: []mealplan.ShoppingItem{
			{Ingredient: "oats", TotalAmount: "1", Unit: "cup", UsedInRecipes: []string{"Oatmeal"}},
		},
		PrepInstructions: []mealplan.PrepStep{
			{Step: 1, Instruction: "Portion the oats", EstimatedTime: 5},
		},
	}

	data, err := NewGenerator().Generate(plan, FormatPDF)
	if err != nil {
		t.Fatalf("Generate(pdf with prep): %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty PDF output")
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	if _, err := NewGenerator().Generate(documentPlan(), "docx"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateCSVSanitizesRecipeNames(t *testing.T) {
	data, err := NewGenerator().Generate(documentPlan(), FormatCSV)
	if err != nil {
		t.Fatalf("Generate(csv): %v", err)
	}
	if strings.Contains(string(data), "\x00") {
		t.Error("control characters must not reach the document")
	}
}
