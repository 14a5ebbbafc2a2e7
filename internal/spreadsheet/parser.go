package spreadsheet

import (
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// Parse converts a validated workbook into a StructuredDiet. Day sheets keep
// workbook order; the shopping-list sheet, if any, fills ShoppingList.
func Parse(wb *Workbook) (*models.StructuredDiet, error) {
	diet := &models.StructuredDiet{
		Days:         []models.DietDay{},
		ShoppingList: []models.ShoppingItem{},
	}
	if wb == nil {
		return nil, &ParseError{Reason: "no valid rows"}
	}

	for _, sheet := range wb.Sheets {
		if IsShoppingListSheet(sheet.Name) {
			diet.ShoppingList = append(diet.ShoppingList, parseShoppingList(sheet)...)
			continue
		}
		if isBlankSheet(sheet) {
			continue
		}
		day, err := parseMealPlan(sheet)
		if err != nil {
			return nil, err
		}
		diet.Days = append(diet.Days, day)
	}

	if diet.MealCount() == 0 {
		return nil, &ParseError{Reason: "no valid rows"}
	}
	return diet, nil
}

// Load runs the whole read, validate and parse sequence on raw bytes.
func Load(data []byte, declaredMIME string) (*models.StructuredDiet, string, error) {
	wb, mimeType, err := Open(data, declaredMIME)
	if err != nil {
		return nil, mimeType, err
	}
	if err := Validate(wb); err != nil {
		return nil, mimeType, err
	}
	diet, err := Parse(wb)
	return diet, mimeType, err
}
