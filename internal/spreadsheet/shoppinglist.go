package spreadsheet

import "github.com/noisevisionproductions/Vitema-sub001/internal/models"

const (
	colItemName     = 0
	colItemQuantity = 1
)

func parseShoppingList(sheet Sheet) []models.ShoppingItem {
	items := []models.ShoppingItem{}
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		name := cell(row, colItemName)
		if name == "" {
			continue
		}
		items = append(items, models.ShoppingItem{Name: name, Quantity: cell(row, colItemQuantity)})
	}
	return items
}
