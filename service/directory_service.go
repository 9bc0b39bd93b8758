package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"legallyai-backend/models"
	"legallyai-backend/repository"
	"legallyai-backend/schema"
	"legallyai-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxAvatarSize is the largest avatar upload accepted, in bytes
const MaxAvatarSize = 5 << 20

// LawyerStore is the directory persistence used by the services
type LawyerStore interface {
	List(ctx context.Context, filter models.LawyerFilter) ([]*models.Lawyer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lawyer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Lawyer, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// FileStore persists upload metadata
type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
}

// DirectoryService handles the lawyer directory and avatar uploads
type DirectoryService struct {
	lawyers LawyerStore
	files   FileStore
	storage storage.Storage
	logger  *zap.Logger
}

// DirectoryServiceOption is a functional option for DirectoryService
type DirectoryServiceOption func(*DirectoryService)

// DirectoryWithLawyerStore sets the lawyer store
func DirectoryWithLawyerStore(store LawyerStore) DirectoryServiceOption {
	return func(s *DirectoryService) {
		s.lawyers = store
	}
}

// DirectoryWithFileStore sets the file metadata store
func DirectoryWithFileStore(store FileStore) DirectoryServiceOption {
	return func(s *DirectoryService) {
		s.files = store
	}
}

// DirectoryWithStorage sets the object storage for avatars
func DirectoryWithStorage(st storage.Storage) DirectoryServiceOption {
	return func(s *DirectoryService) {
		s.storage = st
	}
}

// DirectoryWithLogger sets the logger
func DirectoryWithLogger(logger *zap.Logger) DirectoryServiceOption {
	return func(s *DirectoryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(opts ...DirectoryServiceOption) *DirectoryService {
	s := &DirectoryService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListLawyersRequest represents a directory search
type ListLawyersRequest struct {
	Filter models.LawyerFilter
}

// ListLawyersResult represents the result of a directory search
type ListLawyersResult struct {
	Lawyers []*models.Lawyer
}

// ListLawyers returns lawyers matching the filter in directory order
func (s *DirectoryService) ListLawyers(ctx context.Context, req ListLawyersRequest) (*ListLawyersResult, error) {
	if s.lawyers == nil {
		return nil, errors.New("lawyer store not set")
	}

	lawyers, err := s.lawyers.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	return &ListLawyersResult{Lawyers: lawyers}, nil
}

// GetLawyer retrieves one lawyer
func (s *DirectoryService) GetLawyer(ctx context.Context, id uuid.UUID) (*models.Lawyer, error) {
	if s.lawyers == nil {
		return nil, errors.New("lawyer store not set")
	}

	lawyer, err := s.lawyers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return lawyer, err
}

// Filters lists the expertise and location values offered in search
type Filters struct {
	Expertises []string `json:"expertises"`
	Locations  []string `json:"locations"`
}

// Filters returns the directory search taxonomies
func (s *DirectoryService) Filters() Filters {
	return Filters{Expertises: models.Expertises, Locations: models.Locations}
}

// UploadAvatarRequest represents an avatar upload by a lawyer's owner
type UploadAvatarRequest struct {
	UserID      uuid.UUID
	LawyerID    uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadAvatarResult represents the stored avatar
type UploadAvatarResult struct {
	File      *models.File
	AvatarURL string
}

// UploadAvatar stores an image and points the lawyer's avatar at it. Only the
// user who owns the lawyer record may do this
func (s *DirectoryService) UploadAvatar(ctx context.Context, req UploadAvatarRequest) (*UploadAvatarResult, error) {
	if s.lawyers == nil || s.files == nil || s.storage == nil {
		return nil, errors.New("directory service not fully configured")
	}

	ext, ok := storage.AllowedImageTypes[req.ContentType]
	if !ok {
		return nil, &schema.ValidationError{Issues: []schema.Issue{{Path: "file", Message: "must be a JPEG, PNG or WebP image"}}}
	}
	if req.Size <= 0 || req.Size > MaxAvatarSize {
		return nil, &schema.ValidationError{Issues: []schema.Issue{{Path: "file", Message: fmt.Sprintf("must be between 1 byte and %d bytes", MaxAvatarSize)}}}
	}

	lawyer, err := s.lawyers.GetByID(ctx, req.LawyerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lawyer.UserID == nil || *lawyer.UserID != req.UserID {
		return nil, ErrForbidden
	}

	file := &models.File{
		ID:       uuid.New(),
		UserID:   req.UserID,
		LawyerID: &lawyer.ID,
		Filename: req.Filename,
		MimeType: req.ContentType,
		Size:     req.Size,
	}

	path, err := s.storage.Upload(ctx, file.ID, "avatar"+ext, io.LimitReader(req.Data, MaxAvatarSize))
	if err != nil {
		s.logger.Error("Avatar upload failed", zap.Stringer("lawyer_id", lawyer.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	file.StoragePath = path

	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			s.logger.Warn("Failed to remove orphaned avatar", zap.String("path", path), zap.Error(delErr))
		}
		return nil, err
	}

	avatarURL := "/api/files/" + file.ID.String()
	if err := s.lawyers.UpdateAvatar(ctx, lawyer.ID, avatarURL); err != nil {
		return nil, err
	}

	s.logger.Info("Avatar uploaded", zap.Stringer("lawyer_id", lawyer.ID), zap.Stringer("file_id", file.ID))
	return &UploadAvatarResult{File: file, AvatarURL: avatarURL}, nil
}

// OpenFile returns a stored file's metadata and content. The caller closes
// the reader
func (s *DirectoryService) OpenFile(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	if s.files == nil || s.storage == nil {
		return nil, nil, errors.New("directory service not fully configured")
	}

	file, err := s.files.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Download(ctx, file.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}
