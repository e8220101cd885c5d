package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/analysis"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
)

const (
	analysisWaitTimeout = 30 * time.Second
	imageURLExpiry      = 15 * time.Minute
)

// AnalysisView is an analysis job plus a link to the archived image
type AnalysisView struct {
	models.AnalysisJob
	ImageURL string `json:"image_url,omitempty"`
}

func (h *Handler) analysisView(c *fiber.Ctx, job models.AnalysisJob) AnalysisView {
	view := AnalysisView{AnalysisJob: job}
	if job.ImageKey != "" && h.images != nil {
		url, err := h.images.GetPresignedURL(c.Context(), job.ImageKey, imageURLExpiry)
		if err != nil {
			middleware.Logger(c).Warn("Failed to presign label image", zap.String("key", job.ImageKey), zap.Error(err))
		} else {
			view.ImageURL = url
		}
	}
	return view
}

// readImage reads the optional multipart "image" field
func readImage(c *fiber.Ctx) (analysis.Image, bool, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return analysis.Image{}, false, nil
	}
	if file.Size > analysis.MaxImageSize {
		return analysis.Image{}, true, analysis.ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return analysis.Image{}, true, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, analysis.MaxImageSize+1))
	if err != nil {
		return analysis.Image{}, true, err
	}
	return analysis.Image{
		Data:        data,
		ContentType: file.Header.Get("Content-Type"),
		Filename:    file.Filename,
	}, true, nil
}

// SubmitAnalysis starts a label analysis for the session. Uploads send a
// multipart "image" field; camera captures send source=camera, with or
// without an image. With wait=true the response carries the finished job.
// POST /api/analysis
func (h *Handler) SubmitAnalysis(c *fiber.Ctx) error {
	source := analysis.Source(c.FormValue("source", c.Query("source", string(analysis.SourceUpload))))
	if source != analysis.SourceUpload && source != analysis.SourceCamera {
		return Error(c, fiber.StatusBadRequest, "source must be upload or camera")
	}

	img, hasFile, err := readImage(c)
	if err != nil {
		if errors.Is(err, analysis.ErrImageTooLarge) {
			return Error(c, fiber.StatusBadRequest, analysis.UserMessage(err))
		}
		return Error(c, fiber.StatusBadRequest, "failed to read image")
	}
	if !hasFile && source == analysis.SourceUpload {
		return Error(c, fiber.StatusBadRequest, analysis.UserMessage(analysis.ErrUnsupportedType))
	}
	img.Source = source

	sessionID := middleware.GetSessionID(c)
	job, err := h.jobs.Submit(c.Context(), sessionID, img)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, analysis.UserMessage(err))
	}

	if c.QueryBool("wait") {
		ctx, cancel := context.WithTimeout(c.Context(), analysisWaitTimeout)
		defer cancel()
		job, err = h.jobs.Wait(ctx, sessionID, job.ID)
		if err != nil {
			return internalError(c, "failed to wait for analysis", err)
		}
		if job.Status != models.AnalysisStatusPending {
			return Success(c, h.analysisView(c, job))
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(APIResponse{
		Success: true,
		Data:    h.analysisView(c, job),
	})
}

// GetAnalysis returns an analysis job of the session
// GET /api/analysis/:id
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	job, err := h.jobs.Get(middleware.GetSessionID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, analysis.ErrJobNotFound) {
			return Error(c, fiber.StatusNotFound, "analysis not found")
		}
		return internalError(c, "failed to get analysis", err)
	}
	return Success(c, h.analysisView(c, job))
}

// CancelAnalysis stops a pending analysis
// DELETE /api/analysis/:id
func (h *Handler) CancelAnalysis(c *fiber.Ctx) error {
	job, err := h.jobs.Cancel(middleware.GetSessionID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, analysis.ErrJobNotFound) {
			return Error(c, fiber.StatusNotFound, "analysis not found")
		}
		return internalError(c, "failed to cancel analysis", err)
	}
	return Success(c, h.analysisView(c, job))
}
