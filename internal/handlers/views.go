package handlers

import (
	"fmt"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

// StateView converts a coordinator state into its JSON form.
func StateView(s upload.State) models.UploadStateResponse {
	view := models.UploadStateResponse{
		Type:    string(upload.KindOf(s)),
		History: historyView(upload.HistoryOf(s)),
	}

	switch v := s.(type) {
	case upload.Initial:
	case upload.Loading:
		view.Message = v.Message
		view.Progress = v.Progress
		view.Stage = v.Stage.String()
	case upload.NeedsConfirmation:
		view.Message = v.Message
		view.Conflicts = v.Conflicts
	case upload.Success:
		view.Progress = upload.ProgressDone
	case upload.Failed:
		view.Message = v.Message
	default:
		panic(fmt.Sprintf("handlers: unhandled upload state %T", s))
	}
	return view
}

func historyView(h upload.History) []models.UploadResultResponse {
	out := make([]models.UploadResultResponse, len(h))
	for i, r := range h {
		out[i] = models.UploadResultResponse{
			AccountID: r.AccountID,
			Stage:     r.Stage.String(),
			Status:    string(r.Status),
			Message:   r.Message,
		}
	}
	return out
}
