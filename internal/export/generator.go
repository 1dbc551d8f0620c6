package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/sanitize"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders validated meal plans as PDF or CSV documents. All free
// text passes through the sanitize filters before it reaches a document.
type Generator struct{}

// NewGenerator creates a new document generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the plan in the requested format.
func (g *Generator) Generate(plan *mealplan.MealPlan, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(plan)
	case FormatCSV:
		return g.generateCSV(plan)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generateCSV writes one row per meal slot.
func (g *Generator) generateCSV(plan *mealplan.MealPlan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"day", "meal_number", "meal_type", "recipe", "calories_kcal", "protein_g", "carbs_g", "fat_g", "prep_time_min"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, meal := range plan.Meals {
		row := []string{
			strconv.Itoa(meal.Day),
			strconv.Itoa(meal.MealNumber),
			sanitize.Text(meal.MealType),
			sanitize.Text(meal.Recipe.Name),
			strconv.Itoa(meal.Recipe.CaloriesKcal),
			meal.Recipe.ProteinGrams,
			meal.Recipe.CarbsGrams,
			meal.Recipe.FatGrams,
			strconv.Itoa(meal.Recipe.PrepTimeMinutes),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF renders a summary page, the per-day meal table and, when the
// plan carries one, the meal prep shopping list.
func (g *Generator) generatePDF(plan *mealplan.MealPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, sanitize.Text(plan.PlanName))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Goal: %s", sanitize.Text(plan.FitnessGoal)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Target: %d kcal/day, %d days, %d meals/day",
		plan.DailyCalorieTarget, plan.Days, plan.MealsPerDay))
	pdf.Ln(10)

	// Nutrition summary
	nutrition := mealplan.CalculateNutrition(plan)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Nutrition Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Average per day: %d kcal, %dg protein, %dg carbs, %dg fat",
		nutrition.AverageDaily.Calories,
		nutrition.AverageDaily.Protein,
		nutrition.AverageDaily.Carbs,
		nutrition.AverageDaily.Fat))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Plan total: %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat",
		nutrition.Total.Calories,
		nutrition.Total.Protein,
		nutrition.Total.Carbs,
		nutrition.Total.Fat))
	pdf.Ln(10)

	// Meals table
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Meals")
	pdf.Ln(8)

	g.drawMealsTable(pdf, plan)

	if plan.StartOfWeekMealPrep != nil {
		g.drawMealPrep(pdf, plan.StartOfWeekMealPrep)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) drawMealsTable(pdf *gofpdf.Fpdf, plan *mealplan.MealPlan) {
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(12, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(12, 6, "Meal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, "Recipe", "1", 0, "L", false, 0, "")
	pdf.CellFormat(18, 6, "Kcal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(14, 6, "P", "1", 0, "C", false, 0, "")
	pdf.CellFormat(14, 6, "C", "1", 0, "C", false, 0, "")
	pdf.CellFormat(14, 6, "F", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, meal := range plan.Meals {
		pdf.CellFormat(12, 6, strconv.Itoa(meal.Day), "1", 0, "C", false, 0, "")
		pdf.CellFormat(12, 6, strconv.Itoa(meal.MealNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, sanitize.Text(meal.MealType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, truncateCell(sanitize.Text(meal.Recipe.Name), 50), "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 6, strconv.Itoa(meal.Recipe.CaloriesKcal), "1", 0, "C", false, 0, "")
		pdf.CellFormat(14, 6, meal.Recipe.ProteinGrams, "1", 0, "C", false, 0, "")
		pdf.CellFormat(14, 6, meal.Recipe.CarbsGrams, "1", 0, "C", false, 0, "")
		pdf.CellFormat(14, 6, meal.Recipe.FatGrams, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *Generator) drawMealPrep(pdf *gofpdf.Fpdf, prep *mealplan.MealPrepPlan) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Shopping List")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range prep.ShoppingList {
		amount := sanitize.FormatIngredientAmount(item.TotalAmount, item.Unit)
		pdf.Cell(0, 5, fmt.Sprintf("- %s %s %s", amount, sanitize.Text(item.Unit), sanitize.Text(item.Ingredient)))
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Prep Schedule (%d min total)", prep.TotalPrepTime))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, step := range prep.PrepInstructions {
		pdf.Cell(0, 5, fmt.Sprintf("%d. %s (%d min)", step.Step, sanitize.Text(step.Instruction), step.EstimatedTime))
		pdf.Ln(5)
	}
}

func truncateCell(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
