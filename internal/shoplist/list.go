package shoplist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var ErrItemNotFound = errors.New("list item not found")

// MaxQuantity caps the units held by a single line
const MaxQuantity = 999

// IDGenerator produces line item ids
type IDGenerator func() string

// SequenceIDs returns a generator yielding "1", "2", ... Useful in tests.
func SequenceIDs() IDGenerator {
	var n atomic.Int64
	return func() string {
		return strconv.FormatInt(n.Add(1), 10)
	}
}

// List is a session's shopping list. A line is identified by the
// (product, supplier) pair, so the same product bought from two suppliers
// yields two lines.
//
// List is not safe for concurrent use; session.Manager serialises access.
type List struct {
	Items []models.ShoppingListItem `json:"items"`

	ids IDGenerator
}

// New returns an empty list that draws ids from gen. A nil gen uses uuid.
func New(gen IDGenerator) *List {
	return &List{Items: []models.ShoppingListItem{}, ids: gen}
}

// WithIDs sets the id generator used for new lines
func (l *List) WithIDs(gen IDGenerator) *List {
	l.ids = gen
	return l
}

func (l *List) nextID() string {
	if l.ids == nil {
		return uuid.NewString()
	}
	return l.ids()
}

// AddItem adds quantity units of product from supplier. An existing line for
// the same pair is incremented, otherwise a new line is appended. A
// non-positive quantity counts as 1 and lines saturate at MaxQuantity. The
// resulting line is returned.
func (l *List) AddItem(product models.Product, supplier models.Supplier, quantity int) models.ShoppingListItem {
	if quantity <= 0 {
		quantity = 1
	}
	quantity = min(quantity, MaxQuantity)

	for i := range l.Items {
		item := &l.Items[i]
		if item.Product.ID == product.ID && item.Supplier.ID == supplier.ID {
			item.Quantity = min(item.Quantity+quantity, MaxQuantity)
			return *item
		}
	}

	item := models.ShoppingListItem{
		ID:       l.nextID(),
		Product:  product.Clone(),
		Supplier: supplier,
		Quantity: quantity,
	}
	l.Items = append(l.Items, item)
	return item
}

// UpdateQuantity sets the quantity of a line, capped at MaxQuantity. Zero or
// less removes it. Unknown ids are ignored.
func (l *List) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(id)
		return
	}
	quantity = min(quantity, MaxQuantity)
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops a line. Unknown ids are ignored.
func (l *List) RemoveItem(id string) {
	kept := l.Items[:0]
	for _, item := range l.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	l.Items = kept
}

// Item returns the line with the given id
func (l *List) Item(id string) (models.ShoppingListItem, error) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.ShoppingListItem{}, ErrItemNotFound
}

// Clear empties the list
func (l *List) Clear() {
	l.Items = []models.ShoppingListItem{}
}

// TotalValue is the sum of price * quantity over all lines
func (l *List) TotalValue() float64 {
	var total float64
	for _, item := range l.Items {
		total += item.Subtotal()
	}
	return total
}

// TotalItemCount is the sum of quantities over all lines
func (l *List) TotalItemCount() int {
	count := 0
	for _, item := range l.Items {
		count += item.Quantity
	}
	return count
}

// View returns a copy of the list with its totals
func (l *List) View() models.ShoppingListView {
	items := make([]models.ShoppingListItem, len(l.Items))
	copy(items, l.Items)
	return models.ShoppingListView{
		Items:      items,
		ItemCount:  l.TotalItemCount(),
		TotalValue: l.TotalValue(),
	}
}

// ShareText renders the list as plain text, one "2x Product - Supplier" line
// per item
func (l *List) ShareText() string {
	lines := make([]string, len(l.Items))
	for i, item := range l.Items {
		lines[i] = fmt.Sprintf("%dx %s - %s", item.Quantity, item.Product.Name, item.Supplier.Name)
	}
	return strings.Join(lines, "\n")
}
