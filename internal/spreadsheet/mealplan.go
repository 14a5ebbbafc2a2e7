package spreadsheet

import (
	"strconv"
	"strings"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// MealTypes are assigned to meals by their position within a day.
var MealTypes = []string{"BREAKFAST", "SECOND_BREAKFAST", "LUNCH", "SNACK", "DINNER"}

const extraMealType = "EXTRA"

func mealTypeAt(i int) string {
	if i < len(MealTypes) {
		return MealTypes[i]
	}
	return extraMealType
}

func parseMealPlan(sheet Sheet) (models.DietDay, error) {
	day := models.DietDay{Name: strings.TrimSpace(sheet.Name), Meals: []models.Meal{}}

	for i, row := range sheet.Rows {
		if i == 0 || !isMealRow(row) {
			continue
		}
		rowNum := i + 1

		name := cell(row, colMealName)
		prep := cell(row, colPreparation)
		rawIngredients := cell(row, colIngredients)
		switch {
		case name == "":
			return day, &ParseError{Sheet: sheet.Name, Row: rowNum, Reason: "meal name (column B) is empty"}
		case prep == "":
			return day, &ParseError{Sheet: sheet.Name, Row: rowNum, Reason: "preparation (column C) is empty"}
		}

		ingredients := SplitIngredients(rawIngredients)
		if len(ingredients) == 0 {
			return day, &ParseError{Sheet: sheet.Name, Row: rowNum, Reason: "ingredients (column D) are empty"}
		}

		// Duplicate meal names are accepted.
		day.Meals = append(day.Meals, models.Meal{
			MealType:     mealTypeAt(len(day.Meals)),
			RecipeName:   name,
			Instructions: prep,
			Ingredients:  ingredients,
			Nutrition:    ParseNutrition(cell(row, colNutrition)),
		})
	}
	return day, nil
}

// SplitIngredients splits column D on commas, trimming every entry and
// dropping blanks. Decimal quantities must use a dot.
func SplitIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseNutrition reads "calories,protein,fat,carbs". Anything other than four
// numeric fields yields zero values rather than an error.
func ParseNutrition(raw string) models.Nutrition {
	if strings.TrimSpace(raw) == "" {
		return models.Nutrition{}
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return models.Nutrition{}
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.Nutrition{}
		}
		vals[i] = v
	}
	return models.Nutrition{Calories: vals[0], Protein: vals[1], Fat: vals[2], Carbs: vals[3]}
}
