package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderProgress(l upload.Loading) string {
	return fmt.Sprintf("%s %3d%%  %s", mutedStyle.Render(fmt.Sprintf("[%-9s]", l.Stage)), l.Progress, l.Message)
}

func renderStatus(status upload.ResultStatus) string {
	switch status {
	case upload.StatusSuccess:
		return successStyle.Render("✓ " + string(status))
	case upload.StatusError:
		return errorStyle.Render("✗ " + string(status))
	}
	return mutedStyle.Render("… " + string(status))
}

// renderHistory draws the stage history grouped by account, in order.
func renderHistory(h upload.History) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stage history"))

	current := "\x00"
	for _, r := range h {
		if r.AccountID != current {
			current = r.AccountID
			label := r.AccountID
			if label == "" {
				label = "file"
			}
			b.WriteString("\n" + titleStyle.Render(label))
		}
		line := fmt.Sprintf("\n  %-9s %s", r.Stage, renderStatus(r.Status))
		if r.Message != "" {
			line += " " + mutedStyle.Render(r.Message)
		}
		b.WriteString(line)
	}
	return boxStyle.Render(b.String())
}

func renderSummary(fileName, mimeType string, diet *models.StructuredDiet) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fileName) + " " + mutedStyle.Render(mimeType))
	for _, day := range diet.Days {
		b.WriteString(fmt.Sprintf("\n  %-20s %d meals", day.Name, len(day.Meals)))
	}
	b.WriteString(fmt.Sprintf("\n%d meals, %d shopping items", diet.MealCount(), len(diet.ShoppingList)))
	return boxStyle.Render(b.String())
}
