package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-hrms/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadBytes = 10 << 20 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type FileService interface {
	// SaveUpload validates, writes the multipart file to disk and records its metadata
	SaveUpload(ctx context.Context, fh *multipart.FileHeader, moduleName, recordID string, uploadedBy primitive.ObjectID) (*File, error)
	// SaveImageUpload is SaveUpload restricted to photographic evidence
	SaveImageUpload(ctx context.Context, fh *multipart.FileHeader, moduleName, recordID string, uploadedBy primitive.ObjectID) (*File, error)
	GetFile(ctx context.Context, id string) (*File, error)
	GetFilesByRecord(ctx context.Context, moduleName, recordID string) ([]*File, error)
	DeleteFile(ctx context.Context, id string, userID primitive.ObjectID) error
}

type FileServiceImpl struct {
	Repo      FileRepository
	UploadDir string
	URLPrefix string
}

func NewFileService(repo FileRepository, cfg *config.Config) FileService {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &FileServiceImpl{
		Repo:      repo,
		UploadDir: cfg.FSPath,
		URLPrefix: cfg.FSURL,
	}
}

func (s *FileServiceImpl) SaveUpload(ctx context.Context, fh *multipart.FileHeader, moduleName, recordID string, uploadedBy primitive.ObjectID) (*File, error) {
	return s.save(ctx, fh, moduleName, recordID, uploadedBy, false)
}

func (s *FileServiceImpl) SaveImageUpload(ctx context.Context, fh *multipart.FileHeader, moduleName, recordID string, uploadedBy primitive.ObjectID) (*File, error) {
	return s.save(ctx, fh, moduleName, recordID, uploadedBy, true)
}

func (s *FileServiceImpl) save(ctx context.Context, fh *multipart.FileHeader, moduleName, recordID string, uploadedBy primitive.ObjectID, imageOnly bool) (*File, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("file too large (max %dMB)", maxUploadBytes>>20)
	}

	mimeType := fh.Header.Get("Content-Type")
	if imageOnly && !allowedImageTypes[mimeType] {
		return nil, fmt.Errorf("file type not allowed for photo evidence: %s", mimeType)
	}

	originalName := filepath.Base(fh.Filename)
	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), originalName)
	uniqueName = strings.ReplaceAll(uniqueName, " ", "_")
	dstPath := filepath.Join(s.UploadDir, uniqueName)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("error saving file to disk: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("error saving file to disk: %w", err)
	}

	record := &File{
		OriginalFilename: originalName,
		StoredFilename:   uniqueName,
		Path:             dstPath,
		URL:              s.URLPrefix + "/" + uniqueName,
		Size:             fh.Size,
		MimeType:         mimeType,
		ModuleName:       moduleName,
		RecordID:         recordID,
		UploadedBy:       uploadedBy,
		StorageType:      "local",
	}

	if err := s.Repo.Save(ctx, record); err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("error saving file metadata: %w", err)
	}

	return record, nil
}

func (s *FileServiceImpl) GetFile(ctx context.Context, id string) (*File, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid file ID")
	}
	return s.Repo.Get(ctx, objID)
}

func (s *FileServiceImpl) GetFilesByRecord(ctx context.Context, moduleName, recordID string) ([]*File, error) {
	return s.Repo.FindByRecord(ctx, moduleName, recordID)
}

func (s *FileServiceImpl) DeleteFile(ctx context.Context, id string, userID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid file ID")
	}

	f, err := s.Repo.Get(ctx, objID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	if f.UploadedBy != userID {
		return fmt.Errorf("unauthorized: you can only delete your own files")
	}

	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file from disk: %w", err)
	}

	return s.Repo.Delete(ctx, objID)
}
