package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/repositories"
	"github.com/sbilibin2017/gw-inventory/internal/storage"
)

//go:generate mockgen -source=inventory.go -destination=mock_inventory.go -package=services

// ItemReader defines read-only operations for items.
type ItemReader interface {
	List(ctx context.Context) ([]models.ItemDB, error)                         // All items in storage order
	Search(ctx context.Context, term, sortKey string) ([]models.ItemDB, error) // Filtered and sorted items
	GetByID(ctx context.Context, id int64) (*models.ItemDB, error)             // Nil when missing
	TotalValue(ctx context.Context) (decimal.Decimal, error)                   // Sum of quantity * price
}

// ItemWriter defines write operations for items.
type ItemWriter interface {
	Save(ctx context.Context, in models.ItemInput) (int64, error)
	Update(ctx context.Context, id int64, in models.ItemInput) error
	Delete(ctx context.Context, id int64) error
}

// CategoryGetter resolves a category id.
type CategoryGetter interface {
	GetByID(ctx context.Context, id int64) (*models.CategoryDB, error)
}

// ImageUploader stores item images.
type ImageUploader interface {
	Upload(ctx context.Context, img models.ImageUpload) (url string, key string, err error)
	Remove(ctx context.Context, key string) error
	KeyOf(url string) (key string, ok bool)
}

// TxHook registers fn to run once the request transaction ends. It reports
// false when ctx carries no transaction.
type TxHook func(ctx context.Context, fn func()) bool

// Price column bounds: NUMERIC(14, 4).
const maxPriceScale = 4

var maxPrice = decimal.New(1, 10)

var validSortKeys = map[string]struct{}{
	models.SortByName:      {},
	models.SortByQuantity:  {},
	models.SortByPrice:     {},
	models.SortByDateAdded: {},
}

// InventoryService handles item listing, search, writes and valuation.
type InventoryService struct {
	reader     ItemReader
	writer     ItemWriter
	categories CategoryGetter
	images     ImageUploader
	events     eventPublisher

	afterCommit   TxHook
	afterRollback TxHook
}

// NewInventoryService creates a new InventoryService. images and kafkaWriter
// may be nil, which disables uploads and event publishing respectively.
func NewInventoryService(
	reader ItemReader,
	writer ItemWriter,
	categories CategoryGetter,
	images ImageUploader,
	kafkaWriter KafkaWriter,
) *InventoryService {
	return &InventoryService{
		reader:     reader,
		writer:     writer,
		categories: categories,
		images:     images,
		events:     eventPublisher{writer: kafkaWriter},
	}
}

// WithTxHooks ties image cleanup to the request transaction: uploads are
// removed when it rolls back and replaced images once it commits.
func (s *InventoryService) WithTxHooks(afterCommit, afterRollback TxHook) *InventoryService {
	s.afterCommit = afterCommit
	s.afterRollback = afterRollback
	return s
}

// List returns every item in storage order.
func (s *InventoryService) List(ctx context.Context) ([]models.ItemDB, error) {
	items, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list items", "error", err)
		return nil, err
	}
	return items, nil
}

// Search filters by a case-insensitive substring of name or description and
// orders ascending by sortKey. Both arguments are optional.
func (s *InventoryService) Search(ctx context.Context, query, sortKey string) ([]models.ItemDB, error) {
	if sortKey != "" {
		if _, ok := validSortKeys[sortKey]; !ok {
			return nil, ErrInvalidSortKey
		}
	}

	items, err := s.reader.Search(ctx, query, sortKey)
	if err != nil {
		logger.Log.Errorw("failed to search items", "query", query, "sort", sortKey, "error", err)
		return nil, err
	}
	return items, nil
}

// Get returns the item or ErrItemNotFound.
func (s *InventoryService) Get(ctx context.Context, id int64) (*models.ItemDB, error) {
	item, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get item", "id", id, "error", err)
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Create validates and stores a new item. When img is set it is uploaded
// first and its URL replaces in.ImageURL.
func (s *InventoryService) Create(ctx context.Context, in models.ItemInput, img *models.ImageUpload) (int64, error) {
	if err := s.validateItem(ctx, in); err != nil {
		return 0, err
	}

	key, err := s.attachImage(ctx, &in, img)
	if err != nil {
		return 0, err
	}

	id, err := s.writer.Save(ctx, in)
	if err != nil {
		logger.Log.Errorw("failed to save item", "name", in.Name, "error", err)
		s.discardImage(ctx, key)
		return 0, mapWriteError(err)
	}

	if key != "" {
		s.onRollback(ctx, func() { s.discardImage(context.WithoutCancel(ctx), key) })
	}
	s.events.publish(ctx, models.EventItemCreated, id, in.Name, 0)
	return id, nil
}

// Update replaces every field of an existing item.
func (s *InventoryService) Update(ctx context.Context, id int64, in models.ItemInput, img *models.ImageUpload) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.validateItem(ctx, in); err != nil {
		return err
	}

	key, err := s.attachImage(ctx, &in, img)
	if err != nil {
		return err
	}

	if err := s.writer.Update(ctx, id, in); err != nil {
		s.discardImage(ctx, key)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		logger.Log.Errorw("failed to update item", "id", id, "error", err)
		return mapWriteError(err)
	}

	if key != "" {
		s.onRollback(ctx, func() { s.discardImage(context.WithoutCancel(ctx), key) })
	}
	if old := s.replacedImage(current, in); old != "" {
		s.onCommit(ctx, func() { s.discardImage(context.WithoutCancel(ctx), old) })
	}
	s.events.publish(ctx, models.EventItemUpdated, id, in.Name, 0)
	return nil
}

// Delete removes an existing item.
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.writer.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		logger.Log.Errorw("failed to delete item", "id", id, "error", err)
		return err
	}

	if old := s.replacedImage(item, models.ItemInput{}); old != "" {
		s.onCommit(ctx, func() { s.discardImage(context.WithoutCancel(ctx), old) })
	}
	s.events.publish(ctx, models.EventItemDeleted, id, item.Name, 0)
	return nil
}

// Valuation is the sum of quantity * price over items with a price.
func (s *InventoryService) Valuation(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.reader.TotalValue(ctx)
	if err != nil {
		logger.Log.Errorw("failed to compute total value", "error", err)
		return decimal.Zero, err
	}
	return total, nil
}

// Chart returns one point per item plus the total value.
func (s *InventoryService) Chart(ctx context.Context) (*models.InventoryChart, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.Valuation(ctx)
	if err != nil {
		return nil, err
	}

	chart := &models.InventoryChart{
		TotalValue: total,
		Dates:      make([]string, 0, len(items)),
		Quantities: make([]int, 0, len(items)),
		Prices:     make([]*float64, 0, len(items)),
	}
	for _, item := range items {
		chart.Dates = append(chart.Dates, item.DateAdded.Format(models.DateAddedLayout))
		chart.Quantities = append(chart.Quantities, item.Quantity)
		if item.Price.Valid {
			price := item.Price.Decimal.InexactFloat64()
			chart.Prices = append(chart.Prices, &price)
		} else {
			chart.Prices = append(chart.Prices, nil)
		}
	}
	return chart, nil
}

func (s *InventoryService) validateItem(ctx context.Context, in models.ItemInput) error {
	var messages []string
	if err := validateStruct(in); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		messages = append(messages, verr.Messages...)
	}
	if in.Price.Valid {
		price := in.Price.Decimal
		switch {
		case price.IsNegative():
			messages = append(messages, "Price must be at least 0")
		case price.GreaterThanOrEqual(maxPrice):
			messages = append(messages, "Price must be less than "+maxPrice.String())
		}
		if !price.Equal(price.Truncate(maxPriceScale)) {
			messages = append(messages, "Price must have at most 4 decimal places")
		}
	}
	if len(messages) > 0 {
		return newValidationError(messages...)
	}

	if in.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			logger.Log.Errorw("failed to get category", "id", *in.CategoryID, "error", err)
			return err
		}
		if category == nil {
			return newValidationError("Category does not exist")
		}
	}
	return nil
}

// attachImage uploads img and points in.ImageURL at it. It returns the
// object key so a failed write can remove the object again.
func (s *InventoryService) attachImage(ctx context.Context, in *models.ItemInput, img *models.ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	if s.images == nil {
		return "", newValidationError("Image uploads are not enabled")
	}

	url, key, err := s.images.Upload(ctx, *img)
	switch {
	case errors.Is(err, storage.ErrNotAnImage):
		return "", newValidationError("Image must be an image file")
	case errors.Is(err, storage.ErrImageTooLarge):
		return "", newValidationError("Image must be at most 5 MB")
	case err != nil:
		logger.Log.Errorw("failed to upload image", "filename", img.Filename, "error", err)
		return "", err
	}

	in.ImageURL = &url
	return key, nil
}

// mapWriteError turns a category removed since validation into the same
// message validation gives.
func mapWriteError(err error) error {
	if errors.Is(err, repositories.ErrReferenced) {
		return newValidationError("Category does not exist")
	}
	return err
}

// replacedImage returns the stored object the update stops pointing at.
func (s *InventoryService) replacedImage(current *models.ItemDB, in models.ItemInput) string {
	if s.images == nil || current.ImageURL == nil {
		return ""
	}
	if in.ImageURL != nil && *in.ImageURL == *current.ImageURL {
		return ""
	}
	key, ok := s.images.KeyOf(*current.ImageURL)
	if !ok {
		return ""
	}
	return key
}

// onCommit runs fn after the request transaction commits, or right away
// when there is none.
func (s *InventoryService) onCommit(ctx context.Context, fn func()) {
	if s.afterCommit == nil || !s.afterCommit(ctx, fn) {
		fn()
	}
}

// onRollback runs fn if the request transaction rolls back.
func (s *InventoryService) onRollback(ctx context.Context, fn func()) {
	if s.afterRollback != nil {
		s.afterRollback(ctx, fn)
	}
}

func (s *InventoryService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Remove(ctx, key); err != nil {
		logger.Log.Errorw("failed to remove orphaned image", "key", key, "error", err)
	}
}
