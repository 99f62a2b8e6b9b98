package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-hotel/internal/catalogue"
	"github.com/pixil98/go-hotel/internal/game"
	"github.com/pixil98/go-hotel/internal/storage"
)

type StorageConfig struct {
	/* Static world definitions */
	Models         AssetConfig[*game.RoomModel] `json:"models"`
	BaseItems      AssetConfig[*game.BaseItem]  `json:"base_items"`
	CataloguePages AssetConfig[*catalogue.Page] `json:"catalogue_pages"`

	/* Mutable records with store-assigned identities */
	Rooms RecordConfig[*game.RoomData]   `json:"rooms"`
	Items RecordConfig[*game.ItemRecord] `json:"items"`
}

// Stores bundles the loaded backing stores for worker construction.
type Stores struct {
	Models         *storage.FileStore[*game.RoomModel]
	BaseItems      *storage.FileStore[*game.BaseItem]
	CataloguePages *storage.FileStore[*catalogue.Page]
	Rooms          *storage.FileRecordStore[*game.RoomData]
	Items          *storage.FileRecordStore[*game.ItemRecord]
}

func (c *StorageConfig) BuildStores() (*Stores, error) {
	models, err := c.Models.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating model store: %w", err)
	}
	baseItems, err := c.BaseItems.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating base item store: %w", err)
	}
	pages, err := c.CataloguePages.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating catalogue page store: %w", err)
	}
	rooms, err := c.Rooms.BuildRecordStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	items, err := c.Items.BuildRecordStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}

	return &Stores{
		Models:         models,
		BaseItems:      baseItems,
		CataloguePages: pages,
		Rooms:          rooms,
		Items:          items,
	}, nil
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Models.Validate("models"))
	el.Add(c.BaseItems.Validate("base_items"))
	el.Add(c.CataloguePages.Validate("catalogue_pages"))
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Items.Validate("items"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

type RecordConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *RecordConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *RecordConfig[T]) BuildRecordStore() (*storage.FileRecordStore[T], error) {
	return storage.NewFileRecordStore[T](c.Path)
}
