package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== EvoFit Meal Plan E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Create Recipes", testCreateRecipes},
		{"Approve Recipes", testApproveRecipes},
		{"Search Recipes", testSearchRecipes},
		{"Generate Meal Plan", testGenerateMealPlan},
		{"Validate Meal Plan", testValidateMealPlan},
		{"Save Meal Plan", testSaveMealPlan},
		{"List Meal Plans", testListMealPlans},
		{"Create Export (CSV)", testCreateExportCSV},
		{"Download Export", testDownloadExport},
		{"Delete Export", testDeleteExport},
		{"Delete Meal Plan", testDeleteMealPlan},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testDevAuth() error {
	// If token already set via env, skip
	if token != "" {
		return nil
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/auth/dev", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access_token")
	}

	token = result.AccessToken
	return nil
}

// testCreateRecipes seeds a handful of recipes so the generator has a pool.
func testCreateRecipes() error {
	recipes := []map[string]interface{}{
		{
			"name": "Smoke Oatmeal", "caloriesKcal": 420, "proteinGrams": "14",
			"carbsGrams": "68", "fatGrams": "9", "prepTimeMinutes": 5,
			"mealTypes": []string{"breakfast"},
			"ingredientsJson": []map[string]string{
				{"name": "rolled oats", "amount": "1", "unit": "cup"},
				{"name": "milk", "amount": "1.5", "unit": "cup"},
			},
		},
		{
			"name": "Smoke Chicken Bowl", "caloriesKcal": 550, "proteinGrams": "42",
			"carbsGrams": "48", "fatGrams": "18", "prepTimeMinutes": 15,
			"mealTypes": []string{"lunch", "dinner"},
			"ingredientsJson": []map[string]string{
				{"name": "chicken breast", "amount": "200", "unit": "g"},
				{"name": "rice", "amount": "1", "unit": "cup"},
				{"name": "broccoli", "amount": "100", "unit": "g"},
			},
		},
		{
			"name": "Smoke Salmon Plate", "caloriesKcal": 600, "proteinGrams": "38",
			"carbsGrams": "30", "fatGrams": "32", "prepTimeMinutes": 20,
			"mealTypes": []string{"dinner"},
			"ingredientsJson": []map[string]string{
				{"name": "salmon", "amount": "180", "unit": "g"},
				{"name": "rice", "amount": "1", "unit": "cup"},
			},
		},
	}

	for i, recipe := range recipes {
		body, _ := json.Marshal(recipe)
		req, err := http.NewRequest("POST", apiBase+"/v1/recipes", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		addAuth(req)

		resp, err := client.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusCreated {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("recipe %d: status=%d body=%s", i, resp.StatusCode, string(respBody))
		}

		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			resp.Body.Close()
			return fmt.Errorf("recipe %d decode failed: %w", i, err)
		}
		resp.Body.Close()

		createdIDs[fmt.Sprintf("recipe_%d", i)] = created.ID
	}

	return nil
}

func testApproveRecipes() error {
	for i := 0; i < 3; i++ {
		id := createdIDs[fmt.Sprintf("recipe_%d", i)]
		url := fmt.Sprintf("%s/v1/recipes/%s/approve", apiBase, id)
		req, err := http.NewRequest("PATCH", url, bytes.NewReader([]byte(`{"approved":true}`)))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		addAuth(req)

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("recipe %d: status=%d", i, resp.StatusCode)
		}
	}

	return nil
}

func testSearchRecipes() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/recipes?approved=true", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Recipes []struct {
			ID string `json:"id"`
		} `json:"recipes"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Total < 3 {
		return fmt.Errorf("expected at least 3 approved recipes, got %d", result.Total)
	}

	return nil
}

func testGenerateMealPlan() error {
	payload := map[string]interface{}{
		"planName":           "Smoke Plan",
		"fitnessGoal":        "weight_loss",
		"days":               3,
		"mealsPerDay":        3,
		"dailyCalorieTarget": 1800,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", apiBase+"/v1/meal-plans/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var result struct {
		MealPlan  json.RawMessage `json:"mealPlan"`
		Completed bool            `json:"completed"`
		Nutrition struct {
			AverageDaily struct {
				Calories int `json:"calories"`
			} `json:"averageDaily"`
		} `json:"nutrition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if !result.Completed {
		return fmt.Errorf("generation not completed")
	}
	if len(result.MealPlan) == 0 {
		return fmt.Errorf("empty meal plan")
	}
	if result.Nutrition.AverageDaily.Calories <= 0 {
		return fmt.Errorf("nutrition summary missing")
	}

	createdIDs["generated_plan"] = string(result.MealPlan)
	return nil
}

func testValidateMealPlan() error {
	planJSON := createdIDs["generated_plan"]
	body := []byte(`{"mealPlan":` + planJSON + `}`)

	req, err := http.NewRequest("POST", apiBase+"/v1/meal-plans/validate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Outcome != "strict" && result.Outcome != "lenient" {
		return fmt.Errorf("unexpected outcome %q", result.Outcome)
	}

	return nil
}

func testSaveMealPlan() error {
	planJSON := createdIDs["generated_plan"]
	body := []byte(`{"mealPlan":` + planJSON + `}`)

	req, err := http.NewRequest("POST", apiBase+"/v1/meal-plans", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.ID == "" {
		return fmt.Errorf("empty plan id")
	}

	createdIDs["meal_plan"] = result.ID
	return nil
}

func testListMealPlans() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/meal-plans", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		MealPlans []struct {
			ID string `json:"id"`
		} `json:"mealPlans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.MealPlans) == 0 {
		return fmt.Errorf("saved plan not listed")
	}

	return nil
}

func testCreateExportCSV() error {
	body := []byte(`{"format":"csv","mealPlanId":"` + createdIDs["meal_plan"] + `"}`)

	req, err := http.NewRequest("POST", apiBase+"/v1/exports", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Status != "ready" {
		return fmt.Errorf("export status=%s", result.Status)
	}

	createdIDs["export"] = result.ID
	return nil
}

func testDownloadExport() error {
	url := fmt.Sprintf("%s/v1/exports/%s/download", apiBase, createdIDs["export"])
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Local mode streams the file, S3 mode redirects to a presigned URL.
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("empty export body")
	}

	return nil
}

func testDeleteExport() error {
	url := fmt.Sprintf("%s/v1/exports/%s", apiBase, createdIDs["export"])
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testDeleteMealPlan() error {
	url := fmt.Sprintf("%s/v1/meal-plans/%s", apiBase, createdIDs["meal_plan"])
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Helper functions

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
