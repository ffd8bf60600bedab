package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/models"
	"style-preset-backend/internal/services"
)

type FilesHandler struct {
	service *services.PresetService
	baseURL string
}

func NewFilesHandler(service *services.PresetService, baseURL string) *FilesHandler {
	return &FilesHandler{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Download returns a handler serving files of one kind.
// Presets are sent as attachments, images inline.
//
// @Summary     Download a stored file
// @Tags        files
// @Produce     octet-stream
// @Param       filename path string true "File name"
// @Success     200 {file} file
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /presets/{filename} [get]
// @Router      /uploads/{filename} [get]
// @Router      /previews/{filename} [get]
func (h *FilesHandler) Download(kind blobs.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filename")
		if err := blobs.ValidateName(name); err != nil {
			respondError(c, "invalid file name", err)
			return
		}

		data, err := h.service.ReadFile(c.Request.Context(), kind, name)
		if err != nil {
			respondError(c, "failed to read file", err)
			return
		}

		if kind == blobs.Presets {
			c.Header("Content-Disposition", attachment(name))
		}
		c.Data(http.StatusOK, blobs.ContentType(name), data)
	}
}

// ListKind returns a handler listing every stored file of one kind.
//
// @Summary     List stored files
// @Tags        files
// @Produce     json
// @Success     200 {object} models.StoredFilesResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /presets [get]
// @Router      /uploads [get]
// @Router      /previews [get]
func (h *FilesHandler) ListKind(kind blobs.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := h.service.ListFiles(c.Request.Context(), kind)
		if err != nil {
			respondError(c, "failed to list files", err)
			return
		}

		files := make([]models.StoredFile, len(names))
		for i, name := range names {
			files[i] = models.StoredFile{Filename: name, URL: fileURL(h.baseURL, kind, name)}
		}
		c.JSON(http.StatusOK, models.StoredFilesResponse{Kind: string(kind), Files: files})
	}
}

// ListFiles godoc
// @Summary     List uploads
// @Description Returns every upload record, newest first, with links to its files
// @Tags        files
// @Produce     json
// @Success     200 {object} models.FilesResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /files [get]
func (h *FilesHandler) ListFiles(c *gin.Context) {
	recs, err := h.service.ListRecords(c.Request.Context())
	if err != nil {
		respondError(c, "failed to list files", err)
		return
	}

	files := make([]models.FileResponse, len(recs))
	for i, rec := range recs {
		files[i] = models.FileResponse{
			ID:               rec.ID.String(),
			Filename:         rec.OriginalFilename,
			StyleDescription: rec.StyleDescription,
			MatchedStyles:    nonNil(rec.MatchedStyles),
			UploadURL:        fileURL(h.baseURL, blobs.Uploads, rec.StoredFilename),
			PreviewURL:       fileURL(h.baseURL, blobs.Previews, rec.PreviewFilename),
			PresetURL:        fileURL(h.baseURL, blobs.Presets, rec.PresetFilename),
			UploadTime:       rec.UploadedAt,
		}
	}

	c.JSON(http.StatusOK, models.FilesResponse{Files: files})
}

// DeleteFile godoc
// @Summary     Delete an upload
// @Description Deletes the record owning the file together with its upload, preview and preset
// @Tags        files
// @Produce     json
// @Security    Bearer
// @Param       filename path string true "Any of the record's file names"
// @Success     200 {object} models.DeleteResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /files/{filename} [delete]
func (h *FilesHandler) DeleteFile(c *gin.Context) {
	name := c.Param("filename")
	if err := h.service.DeleteByFilename(c.Request.Context(), name); err != nil {
		respondError(c, "failed to delete file", err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{Message: "deleted " + name})
}
