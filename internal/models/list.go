package models

// ShoppingListItem is one line of the shopping list. The product and supplier are
// copies taken when the line was created.
type ShoppingListItem struct {
	ID       string   `json:"id"`
	Product  Product  `json:"product"`
	Supplier Supplier `json:"supplier"`
	Quantity int      `json:"quantity"`
}

// Subtotal returns price * quantity for the line
func (i ShoppingListItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// ShoppingListView is the shopping list with its derived totals
type ShoppingListView struct {
	Items      []ShoppingListItem `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalValue float64            `json:"total_value"`
}

// Request types

// AddListItemRequest is the request body for adding a product to the shopping list
type AddListItemRequest struct {
	ProductID  int `json:"product_id"`
	SupplierID int `json:"supplier_id"`
	Quantity   int `json:"quantity"`
}

// UpdateListItemRequest is the request body for changing a line quantity
type UpdateListItemRequest struct {
	Quantity int `json:"quantity"`
}

// SetSupplierRequest is the request body for the single-supplier view
type SetSupplierRequest struct {
	Supplier string `json:"supplier"`
}

// ImportListRequest is pasted shopping list text to add to the list
type ImportListRequest struct {
	Text string `json:"text"`
}
