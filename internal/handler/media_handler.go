package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/internal/service"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/response"
)

// MediaHandler exposes upload and review endpoints for article assets.
type MediaHandler struct {
	service *service.MediaService
}

// NewMediaHandler constructs the handler.
func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// Upload godoc
// @Summary Upload a media file for an article
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param news_id formData string true "Article ID"
// @Param position formData int false "Position in article"
// @Param file formData file true "File"
// @Success 201 {object} response.Envelope
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	newsID := c.PostForm("news_id")
	position, _ := strconv.Atoi(c.DefaultPostForm("position", "0"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	media, err := h.service.Upload(c.Request.Context(), service.UploadParams{
		NewsID:            newsID,
		FileName:          filepath.Base(fileHeader.Filename),
		ContentType:       contentType,
		Size:              fileHeader.Size,
		PositionInArticle: position,
		Reader:            file,
	}, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, media)
}

// Get godoc
// @Summary Get media detail
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Envelope
// @Router /media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	media, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if media.IsApproved {
		meta["public_url"] = h.service.PublicURL(media)
	} else if token, expiresAt, err := h.service.SignedURL(media); err == nil {
		meta["download_token"] = token
		meta["download_expires_at"] = expiresAt
	}
	response.JSON(c, http.StatusOK, media, nil, meta)
}

// List godoc
// @Summary List media uploads
// @Tags Media
// @Produce json
// @Param news_id query string false "Article filter"
// @Param approved query bool false "Approval filter"
// @Param type query string false "Media type"
// @Success 200 {object} response.Envelope
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.MediaFilter{
		NewsID:   c.Query("news_id"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("approved"); raw != "" {
		approved := raw == "true"
		filter.Approved = &approved
	}
	if raw := c.Query("type"); raw != "" {
		filter.Type = models.MediaType(strings.ToUpper(raw))
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Approve godoc
// @Summary Approve an upload
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Envelope
// @Router /media/{id}/approve [post]
func (h *MediaHandler) Approve(c *gin.Context) {
	media, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, media, nil)
}

// Reject godoc
// @Summary Reject an upload with a reason
// @Tags Media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Param payload body dto.RejectMediaRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /media/{id}/reject [post]
func (h *MediaHandler) Reject(c *gin.Context) {
	var req dto.RejectMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	media, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, media, nil)
}

// Delete godoc
// @Summary Soft-delete a media row
// @Tags Media
// @Param id path string true "Media ID"
// @Success 204 {object} response.Envelope
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Download godoc
// @Summary Download a file with a signed token
// @Tags Media
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /media/download [get]
func (h *MediaHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, media, err := h.service.OpenSigned(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(media.FilePath)))
	c.DataFromReader(http.StatusOK, media.FileSize, "application/octet-stream", file, nil)
}
