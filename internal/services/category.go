package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/models"
)

//go:generate mockgen -source=category.go -destination=mock_category.go -package=services

// CategoryReader defines read-only operations for categories.
type CategoryReader interface {
	List(ctx context.Context) ([]models.CategoryDB, error)
	GetByID(ctx context.Context, id int64) (*models.CategoryDB, error)
}

// CategoryWriter defines write operations for categories.
type CategoryWriter interface {
	Save(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// CategoryDetacher clears the category of every item that references it.
type CategoryDetacher interface {
	DetachCategory(ctx context.Context, categoryID int64) (int64, error)
}

// CategoryService handles category CRUD.
type CategoryService struct {
	reader   CategoryReader
	writer   CategoryWriter
	detacher CategoryDetacher
	events   eventPublisher
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(reader CategoryReader, writer CategoryWriter, detacher CategoryDetacher, kafkaWriter KafkaWriter) *CategoryService {
	return &CategoryService{
		reader:   reader,
		writer:   writer,
		detacher: detacher,
		events:   eventPublisher{writer: kafkaWriter},
	}
}

type categoryName struct {
	Name string `label:"Name" validate:"required,max=100"`
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryDB, error) {
	categories, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// Create adds a category. Surrounding whitespace is trimmed from name.
func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := validateStruct(categoryName{name}); err != nil {
		return 0, err
	}

	id, err := s.writer.Save(ctx, name)
	if err != nil {
		logger.Log.Errorw("failed to save category", "name", name, "error", err)
		return 0, err
	}

	s.events.publish(ctx, models.EventCategoryCreated, id, name, 0)
	return id, nil
}

// Rename changes the name of an existing category.
func (s *CategoryService) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if err := validateStruct(categoryName{name}); err != nil {
		return err
	}

	if err := s.writer.Update(ctx, id, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		logger.Log.Errorw("failed to rename category", "id", id, "error", err)
		return err
	}

	s.events.publish(ctx, models.EventCategoryUpdated, id, name, 0)
	return nil
}

// Delete removes a category after detaching every item that references it.
// Both statements must run in the same transaction. It returns how many
// items were detached.
func (s *CategoryService) Delete(ctx context.Context, id int64) (int64, error) {
	category, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get category", "id", id, "error", err)
		return 0, err
	}
	if category == nil {
		return 0, ErrCategoryNotFound
	}

	detached, err := s.detacher.DetachCategory(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to detach items from category", "id", id, "error", err)
		return 0, err
	}

	if err := s.writer.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCategoryNotFound
		}
		logger.Log.Errorw("failed to delete category", "id", id, "error", err)
		return 0, err
	}

	s.events.publish(ctx, models.EventCategoryDeleted, id, category.Name, detached)
	return detached, nil
}
