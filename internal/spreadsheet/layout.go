package spreadsheet

import "strings"

// Fixed positional column contract of a diet day sheet.
const (
	colNotes       = 0 // A, never read
	colMealName    = 1 // B
	colPreparation = 2 // C
	colIngredients = 3 // D
	colNutrition   = 4 // E, optional
)

var requiredColumns = []struct {
	index int
	name  string
}{
	{colMealName, "B"},
	{colPreparation, "C"},
	{colIngredients, "D"},
}

// IsShoppingListSheet reports whether a worksheet holds the shopping list
// rather than a diet day.
func IsShoppingListSheet(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "zakup") || strings.Contains(n, "shopping")
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// width is the number of columns up to the last non-blank cell of any row.
func width(rows [][]string) int {
	w := 0
	for _, row := range rows {
		for i := len(row) - 1; i >= w; i-- {
			if strings.TrimSpace(row[i]) != "" {
				w = i + 1
				break
			}
		}
	}
	return w
}

// isBlankSheet reports whether a worksheet has no non-blank cell at all, like
// the empty default sheets spreadsheet editors leave behind.
func isBlankSheet(sheet Sheet) bool {
	return width(sheet.Rows) == 0
}

func isMealRow(row []string) bool {
	return cell(row, colMealName) != "" || cell(row, colPreparation) != "" || cell(row, colIngredients) != ""
}
