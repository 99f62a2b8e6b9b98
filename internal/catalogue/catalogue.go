// Package catalogue sells furniture into user inventories. Pricing and
// credit balances live with the economy collaborator; this package only
// mints item records and hands them to the buyer.
package catalogue

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-hotel/internal/game"
	"github.com/pixil98/go-hotel/internal/storage"
)

const maxPurchaseAmount = 100

// PageItem is one purchasable entry on a catalogue page.
type PageItem struct {
	BaseId string `json:"base_id"`
	Price  int    `json:"price"`
}

// Page is a themed set of purchasable items, loaded from the asset store.
type Page struct {
	Name  string     `json:"name"`
	Items []PageItem `json:"items"`
}

// Validate satisfies storage.ValidatingSpec.
func (p *Page) Validate() error {
	el := errors.NewErrorList()

	if p.Name == "" {
		el.Add(fmt.Errorf("page name is required"))
	}
	for i, it := range p.Items {
		if it.BaseId == "" {
			el.Add(fmt.Errorf("item %d: base_id is required", i))
		}
		if it.Price < 0 {
			el.Add(fmt.Errorf("item %d: price must not be negative", i))
		}
	}

	return el.Err()
}

type Catalogue struct {
	pages     storage.Storer[*Page]
	baseItems storage.Storer[*game.BaseItem]
	itemStore storage.Recorder[*game.ItemRecord]
}

func NewCatalogue(
	pages storage.Storer[*Page],
	baseItems storage.Storer[*game.BaseItem],
	itemStore storage.Recorder[*game.ItemRecord],
) *Catalogue {
	return &Catalogue{
		pages:     pages,
		baseItems: baseItems,
		itemStore: itemStore,
	}
}

// HandlePurchase mints amount items of a page entry into the buyer's
// inventory. Unknown pages, entries not on the page, and unknown base items
// are silent no-ops. Each item gets a store-assigned identity.
func (c *Catalogue) HandlePurchase(user *game.User, pageId, baseId string, amount int) {
	page := c.pages.Get(pageId)
	if page == nil {
		slog.Debug("purchase from unknown page", "user", user.Username, "page", pageId)
		return
	}

	var entry *PageItem
	for i := range page.Items {
		if page.Items[i].BaseId == baseId {
			entry = &page.Items[i]
			break
		}
	}
	if entry == nil {
		slog.Debug("purchase of item not on page", "user", user.Username, "page", pageId, "base", baseId)
		return
	}

	base := c.baseItems.Get(baseId)
	if base == nil {
		slog.Warn("catalogue page references unknown base item", "page", pageId, "base", baseId)
		return
	}

	if amount < 1 {
		amount = 1
	} else if amount > maxPurchaseAmount {
		amount = maxPurchaseAmount
	}

	for i := 0; i < amount; i++ {
		rec := &game.ItemRecord{
			Owner:  user.Username,
			BaseId: baseId,
			Wall:   base.IsWall(),
		}
		id, err := c.itemStore.Insert(rec)
		if err != nil {
			slog.Warn("persisting purchased item", "user", user.Username, "base", baseId, "error", err)
			return
		}
		user.Inventory.Add(&game.UserItem{Id: id, BaseId: baseId, Base: base})
	}

	slog.Info("catalogue purchase", "user", user.Username, "base", baseId, "amount", amount)
}
