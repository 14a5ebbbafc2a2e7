package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

func TestStateView_EveryVariant(t *testing.T) {
	history := upload.History{{AccountID: "a", Stage: upload.StageUploading, Status: upload.StatusSuccess}}

	tests := []struct {
		state upload.State
		want  models.UploadStateResponse
	}{
		{upload.Initial{}, models.UploadStateResponse{Type: "initial", History: []models.UploadResultResponse{}}},
		{
			upload.Loading{Message: "Uploading", Progress: 40, Stage: upload.StageUploading, History: history},
			models.UploadStateResponse{Type: "loading", Message: "Uploading", Progress: 40, Stage: "UPLOADING",
				History: []models.UploadResultResponse{{AccountID: "a", Stage: "UPLOADING", Status: "SUCCESS"}}},
		},
		{
			upload.NeedsConfirmation{Message: "Overwrite?", Conflicts: []models.Account{{ID: "x"}}},
			models.UploadStateResponse{Type: "needs_confirmation", Message: "Overwrite?", History: []models.UploadResultResponse{},
				Conflicts: []models.Account{{ID: "x"}}},
		},
		{
			upload.Success{History: history},
			models.UploadStateResponse{Type: "success", Progress: 100,
				History: []models.UploadResultResponse{{AccountID: "a", Stage: "UPLOADING", Status: "SUCCESS"}}},
		},
		{
			upload.Failed{Message: "boom"},
			models.UploadStateResponse{Type: "error", Message: "boom", History: []models.UploadResultResponse{}},
		},
	}

	for _, tt := range tests {
		t.Run(string(upload.KindOf(tt.state)), func(t *testing.T) {
			assert.Equal(t, tt.want, StateView(tt.state))
		})
	}
}
