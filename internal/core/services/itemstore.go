package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure ItemStore implements the interface.
var _ driven.ItemStore = (*ItemStore)(nil)

// itemsFormatVersion is written into every stored document.
const itemsFormatVersion = 1

// ItemStore persists the item collection as one JSON document in a slot.
// Timestamps are stored in domain.TimestampLayout so they sort lexically
// and parse back to the same instant.
type ItemStore struct {
	slots driven.SlotStore
	key   string
}

// NewItemStore creates an item store over the given slot.
// If key is empty, domain.DefaultSlotKey is used.
func NewItemStore(slots driven.SlotStore, key string) *ItemStore {
	if key == "" {
		key = domain.DefaultSlotKey
	}
	return &ItemStore{slots: slots, key: key}
}

type storedDocument struct {
	Version int          `json:"version"`
	Items   []storedItem `json:"items"`
}

type storedItem struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Type       string         `json:"type"`
	CategoryID string         `json:"categoryId"`
	Completed  bool           `json:"completed"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
	DueDate    *string        `json:"dueDate,omitempty"`
	DateTime   *string        `json:"dateTime,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Load returns the stored collection. A missing slot or malformed payload
// yields an empty collection.
func (s *ItemStore) Load(ctx context.Context) (domain.Collection, error) {
	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	items, err := decodeCollection(data)
	if err != nil {
		logger.Warn("stored items in %q are malformed, starting empty: %v", s.key, err)
		return domain.Collection{}, nil
	}
	return items, nil
}

// Save replaces the stored collection.
func (s *ItemStore) Save(ctx context.Context, items domain.Collection) error {
	data, err := encodeCollection(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := s.slots.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	logger.Debug("saved %d items to %q", len(items), s.key)
	return nil
}

func encodeCollection(items domain.Collection) ([]byte, error) {
	doc := storedDocument{Version: itemsFormatVersion, Items: make([]storedItem, 0, len(items))}
	for _, item := range items {
		doc.Items = append(doc.Items, toStored(item))
	}
	return json.Marshal(doc)
}

// decodeCollection accepts the versioned document and a bare item array.
func decodeCollection(data []byte) (domain.Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.Collection{}, nil
	}

	var stored []storedItem
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &stored); err != nil {
			return nil, err
		}
	} else {
		var doc storedDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		if doc.Version > itemsFormatVersion {
			return nil, fmt.Errorf("unsupported items version %d", doc.Version)
		}
		stored = doc.Items
	}

	items := make(domain.Collection, 0, len(stored))
	for i, si := range stored {
		item, err := fromStored(si)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func toStored(item domain.Item) storedItem {
	si := storedItem{
		ID:         item.ID,
		Title:      item.Title,
		Text:       item.Text,
		Type:       string(item.Type),
		CategoryID: item.CategoryID,
		Completed:  item.Completed,
		CreatedAt:  domain.FormatTimestamp(item.CreatedAt),
		UpdatedAt:  domain.FormatTimestamp(item.UpdatedAt),
		Metadata:   item.Metadata,
	}
	if item.DueDate != nil {
		v := domain.FormatTimestamp(*item.DueDate)
		si.DueDate = &v
	}
	if item.DateTime != nil {
		v := domain.FormatTimestamp(*item.DateTime)
		si.DateTime = &v
	}
	return si
}

func fromStored(si storedItem) (domain.Item, error) {
	if si.ID == "" {
		return domain.Item{}, errors.New("missing id")
	}
	created, err := domain.ParseTimestamp(si.CreatedAt)
	if err != nil {
		return domain.Item{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := domain.ParseTimestamp(si.UpdatedAt)
	if err != nil {
		return domain.Item{}, fmt.Errorf("updatedAt: %w", err)
	}

	item := domain.Item{
		ID:         si.ID,
		Title:      si.Title,
		Text:       si.Text,
		Type:       domain.ItemType(si.Type),
		CategoryID: si.CategoryID,
		Completed:  si.Completed,
		CreatedAt:  created,
		UpdatedAt:  updated,
		Metadata:   si.Metadata,
	}
	if si.DueDate != nil {
		t, err := domain.ParseTimestamp(*si.DueDate)
		if err != nil {
			return domain.Item{}, fmt.Errorf("dueDate: %w", err)
		}
		item.DueDate = &t
	}
	if si.DateTime != nil {
		t, err := domain.ParseTimestamp(*si.DateTime)
		if err != nil {
			return domain.Item{}, fmt.Errorf("dateTime: %w", err)
		}
		item.DateTime = &t
	}
	return item, nil
}
