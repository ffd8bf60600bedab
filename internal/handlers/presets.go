package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/services"
	"style-preset-backend/internal/style"
)

// multipart parsing keeps at most this much of an upload in memory
const formMemoryBytes = 8 << 20

type PresetsHandler struct {
	service        *services.PresetService
	baseURL        string
	maxUploadBytes int64
}

func NewPresetsHandler(service *services.PresetService, baseURL string, maxUploadBytes int64) *PresetsHandler {
	return &PresetsHandler{
		service:        service,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		maxUploadBytes: maxUploadBytes,
	}
}

// ListStyles godoc
// @Summary     List built-in styles
// @Description Returns every style template with its keywords and parameters
// @Tags        styles
// @Produce     json
// @Success     200 {object} models.StylesResponse
// @Router      /styles [get]
func (h *PresetsHandler) ListStyles(c *gin.Context) {
	c.JSON(http.StatusOK, models.StylesResponse{Styles: style.Templates()})
}

// Match godoc
// @Summary     Match a style description
// @Description Maps free text to edit parameters. Text that matches no style yields the defaults.
// @Tags        styles
// @Accept      json
// @Produce     json
// @Param       request body models.MatchRequest true "Style description"
// @Success     200 {object} models.MatchResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /match [post]
func (h *PresetsHandler) Match(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	params, matched := h.service.Match(req.StyleDescription)
	c.JSON(http.StatusOK, models.MatchResponse{
		StyleDescription: req.StyleDescription,
		MatchedStyles:    nonNil(matched),
		Parameters:       params,
	})
}

// CreatePreset godoc
// @Summary     Create a preset
// @Description Encodes the matched parameters as an XMP preset and returns it as a download. Nothing is stored.
// @Tags        presets
// @Accept      json
// @Produce     application/rdf+xml
// @Security    Bearer
// @Param       request body models.CreatePresetRequest true "Style description and optional preset name"
// @Success     200 {file} file
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /presets [post]
func (h *PresetsHandler) CreatePreset(c *gin.Context) {
	var req models.CreatePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	doc, filename, err := h.service.CreatePreset(req.StyleDescription, req.Name)
	if err != nil {
		respondError(c, "failed to encode preset", err)
		return
	}

	c.Header("Content-Disposition", attachment(filename))
	c.Data(http.StatusOK, blobs.ContentType(filename), doc)
}

// Generate godoc
// @Summary     Upload a photo and generate its preset
// @Description Stores the photo, renders a preview with the matched adjustments and writes an XMP preset.
// @Tags        presets
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Photo"
// @Param       style_description formData string false "Style description"
// @Success     200 {object} models.GenerateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /generate_preset [post]
func (h *PresetsHandler) Generate(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   "upload too large",
				Message: fmt.Sprintf("uploads are limited to %d bytes", h.maxUploadBytes),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	if err := c.Request.ParseMultipartForm(formMemoryBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, "upload too large", err)
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid multipart form", Message: err.Error()})
		return
	}

	fileHeader, err := formFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no file provided", Message: `expected a "file" form field`})
		return
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		respondError(c, "failed to read upload", err)
		return
	}

	res, err := h.service.Generate(c.Request.Context(), services.GenerateInput{
		Filename:         fileHeader.Filename,
		Data:             data,
		StyleDescription: c.PostForm("style_description"),
	})
	if err != nil {
		respondError(c, "failed to generate preset", err)
		return
	}

	rec := res.Record
	c.JSON(http.StatusOK, models.GenerateResponse{
		ID:               rec.ID.String(),
		StyleDescription: rec.StyleDescription,
		MatchedStyles:    rec.MatchedStyles,
		Parameters:       res.Parameters,
		UploadURL:        fileURL(h.baseURL, blobs.Uploads, rec.StoredFilename),
		PreviewURL:       fileURL(h.baseURL, blobs.Previews, rec.PreviewFilename),
		PresetURL:        fileURL(h.baseURL, blobs.Presets, rec.PresetFilename),
		CreatedAt:        rec.UploadedAt,
	})
}

// formFile accepts the upload under "file" or, for older clients, "image".
func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("file")
	if err == nil {
		return fh, nil
	}
	if fh, altErr := c.FormFile("image"); altErr == nil {
		return fh, nil
	}
	return nil, err
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func fileURL(baseURL string, kind blobs.Kind, name string) string {
	return baseURL + "/api/v1/" + string(kind) + "/" + url.PathEscape(name)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
