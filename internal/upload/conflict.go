package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// ConflictDetector finds accounts that already have a diet overlapping a period.
type ConflictDetector struct {
	diets DietStore
}

func NewConflictDetector(diets DietStore) *ConflictDetector {
	return &ConflictDetector{diets: diets}
}

// Detect checks accounts one at a time and returns the conflicting ones in
// input order. It performs reads only.
func (d *ConflictDetector) Detect(ctx context.Context, accounts []models.Account, period models.Period) ([]models.Account, error) {
	var conflicts []models.Account
	for _, acc := range accounts {
		overlapping, err := d.diets.HasOverlapping(ctx, acc.ID, period)
		if err != nil {
			return nil, &StorageError{Op: "conflict check", Account: acc.ID, Err: err}
		}
		if overlapping {
			conflicts = append(conflicts, acc)
		}
	}
	return conflicts, nil
}

// ConfirmationMessage builds the single overwrite prompt for all conflicts.
func ConfirmationMessage(conflicts []models.Account, period models.Period) string {
	labels := make([]string, len(conflicts))
	for i, acc := range conflicts {
		labels[i] = acc.Label()
	}
	noun := "account already has"
	if len(conflicts) > 1 {
		noun = "accounts already have"
	}
	return fmt.Sprintf("The following %s a diet overlapping %s: %s. Overwrite?",
		noun, period, strings.Join(labels, ", "))
}
