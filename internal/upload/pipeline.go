package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

const progressChunk = 32 * 1024

// File is a selected upload file held in memory.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Job is the work of one account's pipeline run.
type Job struct {
	Account     models.Account
	File        File
	Diet        *models.StructuredDiet
	Period      models.Period
	RequestedBy string
}

// ProgressEvent is one item of a pipeline's progress stream. The stream ends
// with exactly one event that has Done set or Err non-nil.
type ProgressEvent struct {
	Stage   Stage
	Percent int
	Done    bool
	Err     error
}

// Pipeline writes one parsed diet for one account: blob, metadata, then diet.
type Pipeline struct {
	deps Deps
}

func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Run starts the pipeline and returns its progress stream. The channel is
// closed after the terminal event, or early when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, job Job) <-chan ProgressEvent {
	out := make(chan ProgressEvent)
	go func() {
		defer close(out)
		emit := func(ev ProgressEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		p.run(ctx, job, emit)
	}()
	return out
}

func (p *Pipeline) run(ctx context.Context, job Job, emit func(ProgressEvent) bool) {
	acc := job.Account.ID
	fail := func(stage Stage, err error) {
		emit(ProgressEvent{Stage: stage, Err: err})
	}

	if !emit(ProgressEvent{Stage: StageUploading, Percent: 0}) {
		return
	}

	now := p.deps.now()
	objectPath := BlobPath(acc, job.File.Name, now.UnixMilli())
	size := int64(len(job.File.Data))
	last := -1
	body := newProgressReader(ctx, bytes.NewReader(job.File.Data), size, func(read int64) {
		pct := int(read * ProgressUploaded / size)
		if pct > last {
			last = pct
			emit(ProgressEvent{Stage: StageUploading, Percent: pct})
		}
	})

	url, err := p.deps.Blobs.Upload(ctx, objectPath, body, size, job.File.MimeType)
	if err != nil {
		logger.Error("blob upload failed", "account", acc, "path", objectPath, "err", err)
		fail(StageUploading, &StorageError{Op: "file upload", Account: acc, Err: err})
		return
	}

	meta := &models.FileMetadata{
		OwnerID:    acc,
		UploadedBy: job.RequestedBy,
		FileName:   job.File.Name,
		FileURL:    url,
		FileType:   job.File.MimeType,
		UploadedAt: now,
		Status:     models.FileStatusPending,
	}
	metaID, err := p.deps.Files.Save(ctx, meta)
	if err != nil {
		logger.Error("file metadata save failed", "account", acc, "path", objectPath, "err", err)
		fail(StageUploading, &StorageError{Op: "file metadata save", Account: acc, Err: err})
		return
	}
	if !emit(ProgressEvent{Stage: StageUploading, Percent: ProgressUploaded}) {
		return
	}

	if !emit(ProgressEvent{Stage: StageParsing, Percent: ProgressParsing}) {
		return
	}
	if job.Diet.MealCount() == 0 {
		p.markFile(ctx, metaID, models.FileStatusFailed)
		fail(StageParsing, errors.New("parsed diet has no meals"))
		return
	}

	if !emit(ProgressEvent{Stage: StageSaving, Percent: ProgressSaving}) {
		return
	}
	if err := p.deps.Diets.Save(ctx, acc, job.Diet, job.Period); err != nil {
		logger.Error("diet save failed", "account", acc, "file", metaID, "err", err)
		p.markFile(ctx, metaID, models.FileStatusFailed)
		fail(StageSaving, &StorageError{Op: "diet save", Account: acc, Err: err})
		return
	}
	p.markFile(ctx, metaID, models.FileStatusProcessed)

	emit(ProgressEvent{Stage: StageSaving, Percent: ProgressDone, Done: true})
}

// markFile updates the metadata status. Failures are logged only.
func (p *Pipeline) markFile(ctx context.Context, id string, status models.FileStatus) {
	if err := p.deps.Files.UpdateStatus(ctx, id, status); err != nil {
		logger.Warn("file status update failed", "file", id, "status", status, "err", err)
	}
}

// BlobPath is the object path of an uploaded diet file.
func BlobPath(accountID, fileName string, unixMilli int64) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "diet.xlsx"
	}
	return fmt.Sprintf("diets/%s/%d_%s", accountID, unixMilli, name)
}

// progressReader reports cumulative bytes read. Reads are capped at
// progressChunk so small uploads still produce several events.
type progressReader struct {
	ctx        context.Context
	r          io.Reader
	read       int64
	total      int64
	onProgress func(read int64)
}

func newProgressReader(ctx context.Context, r io.Reader, total int64, onProgress func(int64)) *progressReader {
	return &progressReader{ctx: ctx, r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	if len(b) > progressChunk {
		b = b[:progressChunk]
	}
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		p.onProgress(p.read)
	}
	return n, err
}
