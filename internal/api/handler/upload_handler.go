package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

// maxUploadBytes caps one staged file. The fleet API enforces its own limit
// as well; this stops oversized bodies from being buffered at all.
const maxUploadBytes = 10 << 20

// UploadHandler drives the staged image-upload dialog: open a staging area,
// add or remove files, then submit the whole batch to the fleet API.
type UploadHandler struct {
	uploads   *service.UploadService
	inventory *service.InventoryService
	sessions  *service.SessionService
	log       zerolog.Logger
}

func NewUploadHandler(uploads *service.UploadService, inventory *service.InventoryService, sessions *service.SessionService, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, inventory: inventory, sessions: sessions, log: log}
}

// Page renders the upload landing page with the new-car and assign-role
// forms.
func (h *UploadHandler) Page(c echo.Context) error {
	return c.Render(http.StatusOK, "upload.html", viewData(c, "Upload", nil))
}

// Open creates a staging area, optionally pre-filled with a car id when
// opened from a table row, and redirects into the dialog.
func (h *UploadHandler) Open(c echo.Context) error {
	stagingID := h.uploads.Open(c.FormValue("carId"))
	return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
}

// Dialog renders the staging area: the car id field, the staged file list
// with per-file remove, and the submit button.
func (h *UploadHandler) Dialog(c echo.Context) error {
	view, err := h.uploads.View(c.Param("stagingID"))
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "staging.html", viewData(c, "Upload car images", map[string]any{
		"Staging":     view,
		"CarIDLocked": false,
	}))
}

// SetCar records the target car id on the staging area.
func (h *UploadHandler) SetCar(c echo.Context) error {
	stagingID := c.Param("stagingID")
	if err := h.uploads.SetCarID(stagingID, c.FormValue("carId")); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
}

// AddFiles reads the submitted multipart files into the staging area. Files
// are buffered server-side so a failed submission keeps them without
// re-selection.
func (h *UploadHandler) AddFiles(c echo.Context) error {
	stagingID := c.Param("stagingID")

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	for _, fh := range form.File["files"] {
		if fh.Size > maxUploadBytes {
			flashError(c, fmt.Sprintf("%s is too large (max %d MB)", fh.Filename, maxUploadBytes>>20))
			return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
		}
		src, err := fh.Open()
		if err != nil {
			return err
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}
		file := ports.StagedFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		}
		if err := h.uploads.AddFile(stagingID, file); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
}

// RemoveFile drops one staged file by position.
func (h *UploadHandler) RemoveFile(c echo.Context) error {
	stagingID := c.Param("stagingID")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file index")
	}
	if err := h.uploads.RemoveFile(stagingID, index); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
}

// Submit sends the staged batch to the fleet API. Validation failures (no
// car id, no files) never reach the network and keep the dialog open; a
// fleet API failure keeps the staged files so the operator can retry. On
// success the staging area is gone and the inventory page is refetched so
// image counts stay current.
func (h *UploadHandler) Submit(c echo.Context) error {
	stagingID := c.Param("stagingID")
	ctx := c.Request().Context()

	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	images, err := h.uploads.Submit(ctx, token, stagingID)
	switch {
	case errors.Is(err, domain.ErrMissingCarID):
		flashError(c, "Please set a car ID first")
		return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
	case errors.Is(err, domain.ErrNoStagedFiles):
		flashError(c, "Please add at least one file")
		return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
	case errors.Is(err, domain.ErrStagingNotFound):
		return err
	case err != nil:
		flashError(c, userMsg(err, "Something went wrong when sending the data"))
		return c.Redirect(http.StatusFound, "/employee/uploads/"+stagingID)
	}

	h.inventory.Refresh(ctx, token, middleware.BrowseIDFrom(c))
	flashSuccess(c, fmt.Sprintf("%d image(s) uploaded", len(images)))
	return c.Redirect(http.StatusFound, "/employee/manage-cars")
}

// Close abandons the staging area.
func (h *UploadHandler) Close(c echo.Context) error {
	h.uploads.Close(c.Param("stagingID"))
	return c.Redirect(http.StatusFound, "/employee/manage-cars")
}
