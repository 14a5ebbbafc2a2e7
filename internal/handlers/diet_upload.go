package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
	"github.com/noisevisionproductions/Vitema-sub001/internal/middleware"
	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
	"github.com/noisevisionproductions/Vitema-sub001/internal/spreadsheet"
	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

// SessionProvider hands out the upload coordinator of an administrator.
type SessionProvider interface {
	ForAdmin(adminID string) (*upload.Coordinator, error)
}

type DietUploadHandler struct {
	sessions       SessionProvider
	maxUploadBytes int64
}

func NewDietUploadHandler(sessions SessionProvider, maxUploadBytes int64) *DietUploadHandler {
	return &DietUploadHandler{
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register mounts the diet upload routes on rg.
func (h *DietUploadHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.GET("", h.State)
	rg.GET("/events", h.Events)
	rg.POST("/confirm", h.Confirm)
	rg.POST("/dismiss", h.Dismiss)
	rg.POST("/retry", h.Retry)
	rg.DELETE("/file", h.NewFile)
	rg.POST("/validate", h.Validate)
}

func (h *DietUploadHandler) coordinator(c *gin.Context) (*upload.Coordinator, bool) {
	adminID := c.GetString(middleware.UserIDKey)
	if adminID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return nil, false
	}

	coord, err := h.sessions.ForAdmin(adminID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "upload sessions unavailable", Message: err.Error()})
		return nil, false
	}
	return coord, true
}

// Start godoc
// @Summary     Upload a diet file
// @Description Validates and parses a diet workbook, then assigns it to the selected accounts for a period.
// @Description Progress is reported through GET /api/v1/diet-upload and its events stream.
// @Tags        diet-upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Diet workbook (.xls or .xlsx)"
// @Param       accounts formData string true "Account IDs (repeated or comma-separated)"
// @Param       from formData string true "Period start (YYYY-MM-DD)"
// @Param       to formData string true "Period end (YYYY-MM-DD)"
// @Success     202 {object} models.UploadStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     415 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload [post]
func (h *DietUploadHandler) Start(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}

	file, ok := h.readFile(c)
	if !ok {
		return
	}

	accountIDs := upload.ParseAccountIDs(c.PostFormArray("accounts"))
	if len(accountIDs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "accounts are required"})
		return
	}

	period, err := models.NewPeriod(c.PostForm("from"), c.PostForm("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid period", Message: err.Error()})
		return
	}

	err = coord.StartUpload(upload.Request{
		File:        file,
		AccountIDs:  accountIDs,
		Period:      period,
		RequestedBy: c.GetString(middleware.UserIDKey),
	})
	if err != nil {
		writeTransitionError(c, err)
		return
	}

	logger.Info("diet upload started", "admin", c.GetString(middleware.UserIDKey), "file", file.Name, "accounts", len(accountIDs))
	c.JSON(http.StatusAccepted, StateView(coord.State()))
}

// State godoc
// @Summary     Current upload state
// @Tags        diet-upload
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadStateResponse
// @Router      /api/v1/diet-upload [get]
func (h *DietUploadHandler) State(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StateView(coord.State()))
}

// Events godoc
// @Summary     Upload state stream
// @Description Server-sent events carrying the upload state until the upload settles
// @Tags        diet-upload
// @Produce     text/event-stream
// @Security    Bearer
// @Router      /api/v1/diet-upload/events [get]
func (h *DietUploadHandler) Events(c *gin.Context) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}

	states, cancel := coord.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case s, ok := <-states:
			if !ok {
				return false
			}
			c.SSEvent("state", StateView(s))
			return !endsStream(s)
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func endsStream(s upload.State) bool {
	if upload.Settled(s) {
		return true
	}
	_, initial := s.(upload.Initial)
	return initial
}

// Confirm godoc
// @Summary     Confirm overwriting existing diets
// @Tags        diet-upload
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadStateResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload/confirm [post]
func (h *DietUploadHandler) Confirm(c *gin.Context) {
	h.transition(c, (*upload.Coordinator).Confirm)
}

// Dismiss godoc
// @Summary     Cancel a pending upload
// @Tags        diet-upload
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadStateResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload/dismiss [post]
func (h *DietUploadHandler) Dismiss(c *gin.Context) {
	h.transition(c, (*upload.Coordinator).Dismiss)
}

// Retry godoc
// @Summary     Retry the last upload with the same file and selection
// @Tags        diet-upload
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadStateResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload/retry [post]
func (h *DietUploadHandler) Retry(c *gin.Context) {
	h.transition(c, (*upload.Coordinator).Retry)
}

// NewFile godoc
// @Summary     Clear the selected file
// @Tags        diet-upload
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UploadStateResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload/file [delete]
func (h *DietUploadHandler) NewFile(c *gin.Context) {
	h.transition(c, (*upload.Coordinator).NewFile)
}

func (h *DietUploadHandler) transition(c *gin.Context, action func(*upload.Coordinator) error) {
	coord, ok := h.coordinator(c)
	if !ok {
		return
	}
	if err := action(coord); err != nil {
		writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, StateView(coord.State()))
}

// Validate godoc
// @Summary     Validate a diet file without saving it
// @Tags        diet-upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Diet workbook (.xls or .xlsx)"
// @Success     200 {object} models.ValidateResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     415 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /api/v1/diet-upload/validate [post]
func (h *DietUploadHandler) Validate(c *gin.Context) {
	file, ok := h.readFile(c)
	if !ok {
		return
	}

	diet, mimeType, err := spreadsheet.Load(file.Data, file.MimeType)
	if err != nil {
		var parseErr *spreadsheet.ParseError
		switch {
		case errors.Is(err, spreadsheet.ErrValidation), errors.As(err, &parseErr):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "invalid diet file", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read diet file", Message: err.Error()})
		}
		return
	}

	resp := models.ValidateResponse{
		FileName:      file.Name,
		MimeType:      mimeType,
		Days:          make([]models.DaySummary, len(diet.Days)),
		Meals:         diet.MealCount(),
		ShoppingItems: len(diet.ShoppingList),
	}
	for i, day := range diet.Days {
		resp.Days[i] = models.DaySummary{Name: day.Name, Meals: len(day.Meals)}
	}
	c.JSON(http.StatusOK, resp)
}

// readFile reads the "file" form field and rejects oversized or
// non-spreadsheet uploads.
func (h *DietUploadHandler) readFile(c *gin.Context) (upload.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file too large"})
			return upload.File{}, false
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "file is required", Message: err.Error()})
		return upload.File{}, false
	}
	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "file too large",
			Message: fmt.Sprintf("maximum size is %d bytes", h.maxUploadBytes),
		})
		return upload.File{}, false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file", Message: err.Error()})
		return upload.File{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error()})
		return upload.File{}, false
	}

	declared := header.Header.Get("Content-Type")
	if !spreadsheet.IsAccepted(declared) {
		if guessed := spreadsheet.MIMEForFile(header.Filename); guessed != "" {
			declared = guessed
		}
	}
	mimeType, err := spreadsheet.ResolveMIME(declared, data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{Error: "unsupported file type", Message: err.Error()})
		return upload.File{}, false
	}

	return upload.File{Name: header.Filename, MimeType: mimeType, Data: data}, true
}

func writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrInvalidTransition):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "invalid upload state", Message: err.Error()})
	case errors.Is(err, upload.ErrNoFile), errors.Is(err, upload.ErrNoAccounts), errors.Is(err, upload.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid upload request", Message: err.Error()})
	case errors.Is(err, upload.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "upload sessions unavailable", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "upload failed", Message: err.Error()})
	}
}
