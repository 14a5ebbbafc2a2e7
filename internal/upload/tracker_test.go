package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_BackfillsUploadingAtThreshold(t *testing.T) {
	tr := newTracker("acc")
	var h History

	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Percent: 10})
	assert.Empty(t, h)

	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Percent: UploadThreshold})
	assert.Equal(t, History{{AccountID: "acc", Stage: StageUploading, Status: StatusSuccess}}, h)

	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Percent: ProgressUploaded})
	assert.Len(t, h, 1, "backfill happens once")

	h = tr.observe(h, ProgressEvent{Stage: StageParsing, Percent: ProgressParsing})
	assert.Len(t, h, 1)
}

func TestTracker_StageCrossingWithoutThreshold(t *testing.T) {
	tr := newTracker("acc")
	var h History

	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Percent: 0})
	h = tr.observe(h, ProgressEvent{Stage: StageSaving, Percent: ProgressSaving})
	h = tr.observe(h, ProgressEvent{Stage: StageSaving, Percent: ProgressDone, Done: true})

	assert.Equal(t, []Stage{StageUploading, StageParsing, StageSaving}, []Stage{h[0].Stage, h[1].Stage, h[2].Stage})
	for _, r := range h {
		assert.Equal(t, StatusSuccess, r.Status)
	}
}

func TestTracker_ErrorAfterStageSuccess(t *testing.T) {
	tr := newTracker("acc")
	var h History

	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Percent: ProgressUploaded})
	h = tr.observe(h, ProgressEvent{Stage: StageUploading, Err: errors.New("metadata down")})

	assert.Len(t, h, 2)
	assert.Equal(t, StatusSuccess, h[0].Status)
	assert.Equal(t, StatusError, h[1].Status)
	assert.Equal(t, StageUploading, h[1].Stage)
	assert.Equal(t, "metadata down", h[1].Message)
}

func TestHistory_AppendDoesNotAlias(t *testing.T) {
	base := make(History, 0, 4)
	base = base.Append(Result{Stage: StageUploading})

	a := base.Append(Result{Stage: StageParsing})
	b := base.Append(Result{Stage: StageSaving})

	assert.Equal(t, StageParsing, a[1].Stage)
	assert.Equal(t, StageSaving, b[1].Stage)
}

func TestBlobPath(t *testing.T) {
	assert.Equal(t, "diets/acc-1/1700000000000_week.xlsx", BlobPath("acc-1", "week.xlsx", 1700000000000))
	assert.Equal(t, "diets/acc-1/5_week.xlsx", BlobPath("acc-1", `C:\Users\me\week.xlsx`, 5))
	assert.Equal(t, "diets/acc-1/5_diet.xlsx", BlobPath("acc-1", "", 5))
}
