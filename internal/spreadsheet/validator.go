package spreadsheet

// Validate checks the workbook layout. It has no side effects and must
// succeed before Parse is called.
func Validate(wb *Workbook) error {
	if wb == nil {
		return &EmptyFileError{}
	}

	days := 0
	for _, sheet := range wb.Sheets {
		if IsShoppingListSheet(sheet.Name) || isBlankSheet(sheet) {
			continue
		}
		days++
		if err := ValidateSheet(sheet); err != nil {
			return err
		}
	}
	if days == 0 {
		return &EmptyFileError{}
	}
	return nil
}

// ValidateSheet checks one diet day sheet against the column contract.
func ValidateSheet(sheet Sheet) error {
	if len(sheet.Rows) == 0 {
		return &EmptyFileError{Sheet: sheet.Name}
	}

	data := sheet.Rows[1:]
	hasMeal := false
	for _, row := range data {
		if isMealRow(row) {
			hasMeal = true
			break
		}
	}
	if !hasMeal {
		return &EmptyFileError{Sheet: sheet.Name}
	}

	// Header labels alone do not make a column present.
	w := width(data)
	for _, col := range requiredColumns {
		if col.index >= w {
			return &MissingColumnError{Sheet: sheet.Name, Column: col.name}
		}
	}
	return nil
}
