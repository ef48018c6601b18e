package model

// StoreItem store/items/all/{itemId} 文档
type StoreItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	ItemType string `json:"itemType,omitempty"`
	Price    int64  `json:"price"`
}

// InventoryItem users/{uid}/inventory/{itemId} 文档
type InventoryItem struct {
	ItemID      string `json:"itemId"`
	ItemType    string `json:"itemType,omitempty"`
	PurchasedAt string `json:"purchasedAt"`
}
