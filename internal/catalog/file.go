package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"child-meal-planner/internal/nutrition"
)

var csvHeader = []string{"name", "category", "cost_per_kg", "calories", "protein", "carbs", "fat", "fiber", "iron", "calcium"}

// LoadFile reads ingredients from a .csv, .yaml/.yml or .json file.
func LoadFile(path string) ([]Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", ext)
	}
}

// ReadCSV parses a catalog CSV with the header
// name,category,cost_per_kg,calories,protein,carbs,fat,fiber,iron,calcium.
func ReadCSV(r io.Reader) ([]Ingredient, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("catalog CSV must have header and at least one data row")
	}

	if !validateHeader(records[0], csvHeader) {
		return nil, fmt.Errorf("catalog CSV header mismatch. Expected: %v, Got: %v", csvHeader, records[0])
	}

	ingredients := make([]Ingredient, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("catalog CSV row %d: expected %d columns, got %d", i+2, len(csvHeader), len(record))
		}

		ing, err := parseIngredient(record)
		if err != nil {
			return nil, fmt.Errorf("catalog CSV row %d: %w", i+2, err)
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, nil
}

// ReadYAML parses a YAML list of ingredients.
func ReadYAML(r io.Reader) ([]Ingredient, error) {
	var doc struct {
		Ingredients []Ingredient `yaml:"ingredients"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}
	return checkAll(doc.Ingredients)
}

// ReadJSON parses a JSON list of ingredients.
func ReadJSON(r io.Reader) ([]Ingredient, error) {
	var doc struct {
		Ingredients []Ingredient `json:"ingredients"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog JSON: %w", err)
	}
	return checkAll(doc.Ingredients)
}

func checkAll(ingredients []Ingredient) ([]Ingredient, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("catalog contains no ingredients")
	}
	for i, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
	}
	return ingredients, nil
}

func parseIngredient(record []string) (Ingredient, error) {
	category, err := ParseCategory(record[1])
	if err != nil {
		return Ingredient{}, err
	}

	values := make([]float64, len(record)-2)
	for j, raw := range record[2:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Ingredient{}, fmt.Errorf("invalid %s: %s", csvHeader[j+2], raw)
		}
		values[j] = v
	}

	ing := Ingredient{
		Name:      strings.TrimSpace(record[0]),
		Category:  category,
		CostPerKg: values[0],
		Per100g: nutrition.Nutrients{
			Calories: values[1],
			Protein:  values[2],
			Carbs:    values[3],
			Fat:      values[4],
			Fiber:    values[5],
			Iron:     values[6],
			Calcium:  values[7],
		},
	}
	if err := ing.Validate(); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range actual {
		if strings.TrimSpace(strings.ToLower(col)) != expected[i] {
			return false
		}
	}
	return true
}
