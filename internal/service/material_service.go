package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studyshare/internal/cache"
	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

const (
	statsCacheKey = "materials:stats"
	statsCacheTTL = 1 * time.Minute
)

// FileStore abstracts the on-disk payload store.
type FileStore interface {
	Save(originalName string, r io.Reader) (string, int64, error)
	Remove(name string) error
	Path(name string) (string, error)
}

// MaterialFilter enumerates the recognized list parameters. A non-empty
// Search takes precedence and the other fields are ignored.
type MaterialFilter struct {
	BookID *uuid.UUID
	Status *model.MaterialStatus
	Search string
}

// UploadMaterialInput carries the metadata of a new upload.
type UploadMaterialInput struct {
	Title       string
	Description string
	Tags        []string
	BookID      uuid.UUID
	FileName    string
	FileType    string
	FileSize    int64
}

// UpdateMaterialInput carries a partial update. Nil fields are unchanged; a
// non-nil Status routes through the review transition rules.
type UpdateMaterialInput struct {
	Title       *string
	Description *string
	Tags        []string
	Status      *model.MaterialStatus
}

// MaterialService owns the upload and moderation workflow for materials.
type MaterialService interface {
	Upload(ctx context.Context, in UploadMaterialInput, payload io.ReadSeeker, uploader *model.User) (*model.Material, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]model.MaterialView, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateMaterialInput, actor *model.User) (*model.Material, error)
	// Review transitions a pending material to approved or rejected,
	// recording the acting admin. A material that is missing yields
	// NotFound; one already reviewed yields InvalidTransition.
	Review(ctx context.Context, id uuid.UUID, decision model.MaterialStatus, reviewer *model.User) (*model.Material, error)
	Delete(ctx context.Context, id uuid.UUID, actor *model.User) error
	Stats(ctx context.Context) (*model.MaterialStats, error)
}

type materialService struct {
	materials repository.MaterialRepository
	books     repository.BookRepository
	store     FileStore
	cache     *cache.Client
	validator *UploadValidator
}

// NewMaterialService creates a new material service.
func NewMaterialService(
	materials repository.MaterialRepository,
	books repository.BookRepository,
	store FileStore,
	cacheClient *cache.Client,
) MaterialService {
	return &materialService{
		materials: materials,
		books:     books,
		store:     store,
		cache:     cacheClient,
		validator: NewUploadValidator(),
	}
}

func (s *materialService) Upload(ctx context.Context, in UploadMaterialInput, payload io.ReadSeeker, uploader *model.User) (*model.Material, error) {
	if err := s.validator.Validate(in.FileSize, in.FileType, payload); err != nil {
		return nil, err
	}

	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book")
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	storedName, written, err := s.store.Save(in.FileName, payload)
	if err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}
	if written > MaxUploadSize {
		_ = s.store.Remove(storedName)
		return nil, fmt.Errorf("%w: file exceeds the %d byte limit", apperrors.ErrPayloadTooLarge, MaxUploadSize)
	}

	material := &model.Material{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		FileName:    in.FileName,
		FilePath:    storedName,
		FileSize:    written,
		FileType:    normalizeMediaType(in.FileType),
		Tags:        datatypes.NewJSONSlice(normalizeTags(in.Tags)),
		BookID:      in.BookID,
		UploadedBy:  uploader.ID,
		Status:      model.MaterialStatusPending,
	}

	if err := s.materials.Create(ctx, material); err != nil {
		if removeErr := s.store.Remove(storedName); removeErr != nil {
			log.Printf("orphaned payload %s after failed create: %v", storedName, removeErr)
		}
		return nil, fmt.Errorf("create material: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey)
	return material, nil
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("material")
		}
		return nil, err
	}
	return material, nil
}

func (s *materialService) List(ctx context.Context, filter MaterialFilter) ([]model.MaterialView, error) {
	var (
		materials []model.Material
		err       error
	)
	if filter.Search != "" {
		materials, err = s.materials.Search(ctx, filter.Search)
	} else {
		materials, err = s.materials.List(ctx, filter.BookID, filter.Status)
	}
	if err != nil {
		return nil, err
	}

	views := make([]model.MaterialView, 0, len(materials))
	for _, m := range materials {
		views = append(views, model.NewMaterialView(m))
	}
	return views, nil
}

func (s *materialService) Update(ctx context.Context, id uuid.UUID, in UpdateMaterialInput, actor *model.User) (*model.Material, error) {
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if in.Status != nil {
			return nil, apperrors.Forbidden("change material status")
		}
		if material.UploadedBy != actor.ID {
			return nil, apperrors.Forbidden("update another user's material")
		}
		if material.Status != model.MaterialStatusPending {
			return nil, apperrors.Forbidden("edit a reviewed material")
		}
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Tags != nil {
		fields["tags"] = datatypes.NewJSONSlice(normalizeTags(in.Tags))
	}

	// The decision runs before any metadata write so a rejected transition
	// leaves the record untouched instead of landing a partial edit.
	if in.Status != nil {
		if _, err := s.Review(ctx, id, *in.Status, actor); err != nil {
			return nil, err
		}
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		if _, err := s.materials.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update material: %w", err)
		}
	}

	return s.Get(ctx, id)
}

func (s *materialService) Review(ctx context.Context, id uuid.UUID, decision model.MaterialStatus, reviewer *model.User) (*model.Material, error) {
	if !decision.Terminal() {
		return nil, apperrors.InvalidInput("decision must be approved or rejected")
	}

	rows, err := s.materials.TransitionStatus(ctx, id, decision, reviewer.ID)
	if err != nil {
		return nil, fmt.Errorf("transition material: %w", err)
	}
	if rows == 0 {
		if _, err := s.materials.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("material")
		}
		return nil, fmt.Errorf("%w: material is no longer pending", apperrors.ErrInvalidTransition)
	}

	return s.Get(ctx, id)
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID, actor *model.User) error {
	material, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && material.UploadedBy != actor.ID {
		return apperrors.Forbidden("delete another user's material")
	}

	if err := s.materials.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}

	if err := s.store.Remove(material.FilePath); err != nil {
		// Storage absence is not fatal for record deletion, but it should
		// be visible in logs.
		if os.IsNotExist(err) {
			log.Printf("payload %s for material %s was already missing", material.FilePath, id)
		} else {
			log.Printf("remove payload %s for material %s: %v", material.FilePath, id, err)
		}
	}

	_ = s.cache.Delete(ctx, statsCacheKey)
	return nil
}

func (s *materialService) Stats(ctx context.Context) (*model.MaterialStats, error) {
	var cached model.MaterialStats
	if s.cache.GetJSON(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.materials.Stats(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

// normalizeTags trims entries, drops empties and removes duplicates while
// preserving order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}
