package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"legallyai-backend/models"
	"legallyai-backend/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPageSize = 100

// DirectoryService is the directory behaviour the HTTP layer needs
type DirectoryService interface {
	ListLawyers(ctx context.Context, req service.ListLawyersRequest) (*service.ListLawyersResult, error)
	GetLawyer(ctx context.Context, id uuid.UUID) (*models.Lawyer, error)
	Filters() service.Filters
	UploadAvatar(ctx context.Context, req service.UploadAvatarRequest) (*service.UploadAvatarResult, error)
	OpenFile(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error)
}

// LawyerHandler handles HTTP requests for the lawyer directory
type LawyerHandler struct {
	directory DirectoryService
	logger    *zap.Logger
}

// NewLawyerHandler creates a new lawyer handler
func NewLawyerHandler(directory DirectoryService, logger *zap.Logger) *LawyerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LawyerHandler{directory: directory, logger: logger}
}

// ListLawyers handles GET /api/lawyers?expertise=&location=&q=&limit=&offset=
func (h *LawyerHandler) ListLawyers(c *gin.Context) {
	filter := models.LawyerFilter{
		Expertise: c.Query("expertise"),
		Location:  c.Query("location"),
		Search:    c.Query("q"),
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit", 0); err != nil || filter.Limit < 0 || filter.Limit > maxPageSize {
		respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 0 and 100")
		return
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil || filter.Offset < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_OFFSET", "offset must be a non-negative integer")
		return
	}

	res, err := h.directory.ListLawyers(c.Request.Context(), service.ListLawyersRequest{Filter: filter})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res.Lawyers)
}

// GetFilters handles GET /api/lawyers/filters
func (h *LawyerHandler) GetFilters(c *gin.Context) {
	respondOK(c, http.StatusOK, h.directory.Filters())
}

// GetLawyer handles GET /api/lawyers/:id
func (h *LawyerHandler) GetLawyer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lawyer ID format")
		return
	}

	lawyer, err := h.directory.GetLawyer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, lawyer)
}

// UploadAvatar handles POST /api/lawyers/:id/avatar
func (h *LawyerHandler) UploadAvatar(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondServiceError(c, h.logger, service.ErrUnauthorized)
		return
	}

	lawyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lawyer ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", "Failed to read upload")
		return
	}
	defer file.Close()

	// The stored type is served back from /api/files, so trust the bytes
	// rather than the part header
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", "Failed to read upload")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", "Failed to read upload")
		return
	}

	res, err := h.directory.UploadAvatar(c.Request.Context(), service.UploadAvatarRequest{
		UserID:      user.ID,
		LawyerID:    lawyerID,
		Filename:    fileHeader.Filename,
		ContentType: detected.String(),
		Size:        fileHeader.Size,
		Data:        file,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"id":         res.File.ID,
		"avatar_url": res.AvatarURL,
		"mime_type":  res.File.MimeType,
		"size":       res.File.Size,
	})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
