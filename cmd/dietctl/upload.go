package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/noisevisionproductions/Vitema-sub001/internal/config"
	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/spreadsheet"
	"github.com/noisevisionproductions/Vitema-sub001/internal/stores"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

var errCancelled = errors.New("upload cancelled, nothing was saved")

type UploadCmd struct {
	Accounts []string `name:"account" short:"a" required:"" help:"Target account ID (repeatable)."`
	From     string   `required:"" help:"Period start (YYYY-MM-DD)."`
	To       string   `required:"" help:"Period end (YYYY-MM-DD)."`
	Yes      bool     `short:"y" help:"Overwrite existing diets without asking."`
	File     string   `arg:"" type:"existingfile" help:"Diet workbook (.xls or .xlsx)."`
}

func (cmd *UploadCmd) Run(ctx *Context) error {
	cfg, err := config.LoadForCLI()
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		if err := logger.Init(logger.Config{Level: ctx.LogLevel, File: cfg.LogFile, Prefix: "dietctl", Quiet: true}); err != nil {
			return err
		}
	}

	req, err := cmd.request()
	if err != nil {
		return err
	}

	set, err := stores.Open(ctx.Ctx, cfg, stores.Options{})
	if err != nil {
		return err
	}
	defer set.Close()

	coord := upload.NewCoordinator(ctx.Ctx, set.Deps())
	defer coord.Close()

	return runUpload(coord, req, cmd.confirmer())
}

func (cmd *UploadCmd) request() (upload.Request, error) {
	period, err := models.NewPeriod(cmd.From, cmd.To)
	if err != nil {
		return upload.Request{}, err
	}
	if !period.Valid() {
		return upload.Request{}, fmt.Errorf("%w: %s", upload.ErrInvalidPeriod, period)
	}
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return upload.Request{}, fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	return upload.Request{
		File: upload.File{
			Name:     filepath.Base(cmd.File),
			MimeType: spreadsheet.MIMEForFile(cmd.File),
			Data:     data,
		},
		AccountIDs:  upload.ParseAccountIDs(cmd.Accounts),
		Period:      period,
		RequestedBy: "dietctl",
	}, nil
}

// confirmFunc answers the overwrite prompt.
type confirmFunc func(message string) (bool, error)

func (cmd *UploadCmd) confirmer() confirmFunc {
	if cmd.Yes {
		return func(string) (bool, error) { return true, nil }
	}
	return func(message string) (bool, error) {
		overwrite := false
		err := huh.NewConfirm().
			Title("Existing diets found").
			Description(message).
			Affirmative("Overwrite").
			Negative("Cancel").
			Value(&overwrite).
			Run()
		return overwrite, err
	}
}

// runUpload drives coord until the upload settles, printing progress.
func runUpload(coord *upload.Coordinator, req upload.Request, confirm confirmFunc) error {
	states, cancel := coord.Subscribe()
	defer cancel()

	if err := coord.StartUpload(req); err != nil {
		return err
	}

	started := false
	var last progressLine
	for s := range states {
		switch v := s.(type) {
		case upload.Initial:
			if started {
				return errCancelled
			}
		case upload.Loading:
			started = true
			line := progressLine{stage: v.Stage, progress: v.Progress, message: v.Message}
			if line != last {
				fmt.Println(renderProgress(v))
				last = line
			}
		case upload.NeedsConfirmation:
			started = true
			ok, err := confirm(v.Message)
			if err != nil {
				_ = coord.Dismiss()
				return err
			}
			if !ok {
				if err := coord.Dismiss(); err != nil {
					return err
				}
				continue
			}
			if err := coord.Confirm(); err != nil {
				return err
			}
		case upload.Success:
			fmt.Println(renderHistory(v.History))
			fmt.Println(successStyle.Render("Diet assigned to all selected accounts."))
			return nil
		case upload.Failed:
			if len(v.History) > 0 {
				fmt.Println(renderHistory(v.History))
			}
			return errors.New(v.Message)
		}
	}
	return upload.ErrClosed
}

type progressLine struct {
	stage    upload.Stage
	progress int
	message  string
}
