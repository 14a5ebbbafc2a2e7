package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/noisevisionproductions/Vitema-sub001/internal/spreadsheet"
)

type ValidateCmd struct {
	File string `arg:"" type:"existingfile" help:"Diet workbook (.xls or .xlsx)."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	diet, mimeType, err := spreadsheet.Load(data, spreadsheet.MIMEForFile(cmd.File))
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(filepath.Base(cmd.File), mimeType, diet))
	return nil
}
