// Package ifc manages uploaded IFC building models and the links between
// model elements and rooms.
package ifc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/store"
	"github.com/xelth-com/asbuiltgo/internal/utils"
)

// PublicPrefix is the URL prefix the upload directory is served under
const PublicPrefix = "/uploads/"

const subdir = "ifc"

const maxNameAttempts = 100

// ErrEmptyFile is returned for uploads without content
var ErrEmptyFile = errors.New("empty IFC file")

// UploadResult is returned after storing a model
type UploadResult struct {
	Success  bool   `json:"success"`
	FileID   uint   `json:"fileId"`
	FilePath string `json:"filePath"`
}

// RoomWithColor is a room as the 3D viewer paints it
type RoomWithColor struct {
	models.Room
	Color     string `json:"color"`
	NumIssues int64  `json:"numApontamentos"`
}

// Service stores models on disk and their metadata in the database
type Service struct {
	store     *store.Store
	uploadDir string
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates an IFC service rooted at uploadDir
func NewService(st *store.Store, uploadDir string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     st,
		uploadDir: uploadDir,
		log:       log,
		now:       time.Now,
	}
}

// Upload writes the model under a unique name and records its metadata. The
// file is removed again if the metadata cannot be stored.
func (s *Service) Upload(ctx context.Context, data []byte, fileName string, building *string, uploadedBy uint) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if uploadedBy == 0 {
		uploadedBy = models.SystemUserID
	}

	dir := filepath.Join(s.uploadDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	sanitized := utils.SanitizeFileName(fileName)
	unique, err := writeUnique(dir, fmt.Sprintf("%d", s.now().UnixMilli()), sanitized, data)
	if err != nil {
		return nil, fmt.Errorf("failed to write IFC file: %w", err)
	}
	diskPath := filepath.Join(dir, unique)

	if building != nil && strings.TrimSpace(*building) == "" {
		building = nil
	}
	file := &models.IfcFile{
		FileName:   sanitized,
		FilePath:   path.Join(PublicPrefix, subdir, unique),
		Building:   building,
		UploadedBy: uploadedBy,
		FileSize:   int64(len(data)),
	}
	if err := s.store.CreateIfcFile(ctx, file); err != nil {
		if rmErr := os.Remove(diskPath); rmErr != nil {
			s.log.Warn("could not remove orphaned IFC file", zap.String("path", diskPath), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to record IFC file: %w", err)
	}

	s.log.Info("📦 IFC model stored",
		zap.Uint("id", file.ID),
		zap.String("path", file.FilePath),
		zap.Int64("size", file.FileSize))

	return &UploadResult{Success: true, FileID: file.ID, FilePath: file.FilePath}, nil
}

// writeUnique creates <stamp>_<name> in dir, adding a counter when the name
// is taken, and returns the chosen name
func writeUnique(dir, stamp, name string, data []byte) (string, error) {
	for n := 0; n < maxNameAttempts; n++ {
		unique := stamp + "_" + name
		if n > 0 {
			unique = fmt.Sprintf("%s_%d_%s", stamp, n, name)
		}

		f, err := os.OpenFile(filepath.Join(dir, unique), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return "", err
		}
		return unique, nil
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", name, maxNameAttempts)
}

// Delete removes a model's metadata and, best effort, its file
func (s *Service) Delete(ctx context.Context, id uint) error {
	file, err := s.store.IfcFileByID(ctx, id)
	if err != nil {
		return err
	}

	diskPath := s.diskPath(file.FilePath)
	if err := os.Remove(diskPath); err != nil {
		s.log.Warn("error deleting IFC file from disk", zap.String("path", diskPath), zap.Error(err))
	}

	return s.store.DeleteIfcFile(ctx, id)
}

// diskPath maps a public /uploads/... path back into the upload directory
func (s *Service) diskPath(publicPath string) string {
	rel := strings.TrimPrefix(publicPath, PublicPrefix)
	rel = filepath.FromSlash(path.Clean("/" + rel))
	return filepath.Join(s.uploadDir, rel)
}

// List returns model metadata, optionally for one building
func (s *Service) List(ctx context.Context, building string) ([]models.IfcFile, error) {
	return s.store.ListIfcFiles(ctx, building)
}

// LinkElement associates an IFC element id with a room. The id is not checked
// against any stored model.
func (s *Service) LinkElement(ctx context.Context, roomID uint, expressID int) error {
	return s.store.LinkIfcElement(ctx, roomID, expressID)
}

// RoomsWithColors returns every room with its viewer colour and issue count
func (s *Service) RoomsWithColors(ctx context.Context) ([]RoomWithColor, error) {
	rooms, err := s.store.ListRooms(ctx, "")
	if err != nil {
		return nil, err
	}
	counts, err := s.store.IssueCountsByRoomName(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Label] = c.Count
	}

	out := make([]RoomWithColor, 0, len(rooms))
	for _, r := range rooms {
		n := byName[r.Name]
		out = append(out, RoomWithColor{
			Room:      r,
			Color:     dashboard.RoomColor(r.Status, n),
			NumIssues: n,
		})
	}
	return out, nil
}
