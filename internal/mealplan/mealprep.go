package mealplan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ingredient category keywords, checked in order; first hit wins. Anything
// unmatched lands in "other".
var (
	vegetableKeywords = []string{
		"broccoli", "carrot", "spinach", "pepper", "onion", "tomato",
		"lettuce", "cucumber", "zucchini", "kale", "cauliflower",
		"asparagus", "celery", "mushroom", "cabbage", "garlic",
	}
	proteinKeywords = []string{
		"chicken", "beef", "turkey", "pork", "fish", "salmon", "tuna",
		"shrimp", "tofu", "tempeh", "egg", "beans", "lentil",
	}
	grainKeywords = []string{
		"rice", "pasta", "quinoa", "oat", "bread", "noodle", "barley",
		"couscous", "tortilla",
	}
	dairyKeywords = []string{
		"milk", "cheese", "yogurt", "butter", "cream",
	}
)

var storageByCategory = map[string]StorageInstruction{
	"vegetable": {Method: "Refrigerate in airtight containers", Duration: "3-5 days"},
	"protein":   {Method: "Refrigerate cooked, freeze raw portions", Duration: "3-4 days refrigerated"},
	"grain":     {Method: "Refrigerate in sealed containers", Duration: "5-7 days"},
	"dairy":     {Method: "Keep refrigerated below 40°F", Duration: "Per package date"},
	"other":     {Method: "Store as appropriate", Duration: "Varies"},
}

// SynthesizeMealPrep derives a weekly shopping list and prep schedule from a
// plan's embedded recipes. Purely mechanical: amounts are summed where they
// parse as numbers, and prep times come from fixed per-category formulas.
func SynthesizeMealPrep(plan *MealPlan) *MealPrepPlan {
	type consolidated struct {
		name    string
		amount  float64
		unit    string
		recipes []string
		seenIn  map[string]bool
	}

	items := make(map[string]*consolidated)
	var order []string

	for _, meal := range plan.Meals {
		for _, ing := range meal.Recipe.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ing.Name))
			if key == "" {
				continue
			}
			item, ok := items[key]
			if !ok {
				item = &consolidated{
					name:   ing.Name,
					unit:   ing.Unit,
					seenIn: make(map[string]bool),
				}
				items[key] = item
				order = append(order, key)
			}
			if amount, err := strconv.ParseFloat(ing.Amount, 64); err == nil {
				item.amount += amount
			}
			if meal.Recipe.Name != "" && !item.seenIn[meal.Recipe.Name] {
				item.seenIn[meal.Recipe.Name] = true
				item.recipes = append(item.recipes, meal.Recipe.Name)
			}
		}
	}

	prep := &MealPrepPlan{
		ShoppingList:        make([]ShoppingItem, 0, len(order)),
		PrepInstructions:    []PrepStep{},
		StorageInstructions: make([]StorageInstruction, 0, len(order)),
	}

	byCategory := make(map[string][]string)
	for _, key := range order {
		item := items[key]
		prep.ShoppingList = append(prep.ShoppingList, ShoppingItem{
			Ingredient:    item.name,
			TotalAmount:   formatFloat(item.amount),
			Unit:          item.unit,
			UsedInRecipes: item.recipes,
		})

		category := categorizeIngredient(key)
		byCategory[category] = append(byCategory[category], item.name)

		instr := storageByCategory[category]
		instr.Ingredient = item.name
		prep.StorageInstructions = append(prep.StorageInstructions, instr)
	}

	step := 1
	addStep := func(instruction string, minutes int, ingredients []string) {
		prep.PrepInstructions = append(prep.PrepInstructions, PrepStep{
			Step:          step,
			Instruction:   instruction,
			EstimatedTime: minutes,
			Ingredients:   ingredients,
		})
		prep.TotalPrepTime += minutes
		step++
	}

	if veg := byCategory["vegetable"]; len(veg) > 0 {
		sort.Strings(veg)
		addStep(
			fmt.Sprintf("Wash and chop all vegetables: %s", strings.Join(veg, ", ")),
			maxInt(15, 5*len(veg)),
			veg,
		)
	}
	if proteins := byCategory["protein"]; len(proteins) > 0 {
		sort.Strings(proteins)
		addStep(
			fmt.Sprintf("Portion and marinate proteins: %s", strings.Join(proteins, ", ")),
			maxInt(20, 8*len(proteins)),
			proteins,
		)
	}
	if grains := byCategory["grain"]; len(grains) > 0 {
		sort.Strings(grains)
		addStep(
			fmt.Sprintf("Cook grains in bulk: %s", strings.Join(grains, ", ")),
			maxInt(25, 10*len(grains)),
			grains,
		)
	}
	if len(prep.ShoppingList) > 0 {
		addStep("Label and store all prepped items in containers", 10, nil)
	}

	return prep
}

func categorizeIngredient(name string) string {
	switch {
	case matchesAny(name, vegetableKeywords):
		return "vegetable"
	case matchesAny(name, proteinKeywords):
		return "protein"
	case matchesAny(name, grainKeywords):
		return "grain"
	case matchesAny(name, dairyKeywords):
		return "dairy"
	default:
		return "other"
	}
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
