package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	BaseUnit       string          `json:"base_unit"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	FormattedStock string          `json:"formatted_stock"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	IsLowStock     bool            `json:"is_low_stock"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// CreateItemRequest represents a request to register an inventory item
type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Category     string          `json:"category" binding:"max=100"`
	Unit         string          `json:"unit" binding:"required,oneof=g kg piece liter ml"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	InitialCost  decimal.Decimal `json:"initial_cost"`
}

// UpdateItemRequest represents an edit of descriptive fields.
// CurrentStock is bound only so that a payload carrying it can be refused.
type UpdateItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	Unit         *string          `json:"unit" binding:"omitempty,oneof=g kg piece liter ml"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	CurrentStock *decimal.Decimal `json:"current_stock"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Type     string          `json:"type" binding:"required,oneof=adjustment_add adjustment_remove waste"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit" binding:"omitempty,oneof=g kg piece liter ml"`
	Notes    string          `json:"notes" binding:"max=500"`
}

// AdjustmentResponse pairs the refreshed item with the transaction that changed it
type AdjustmentResponse struct {
	Item        ItemResponse        `json:"item"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionResponse represents an inventory transaction in API responses
type TransactionResponse struct {
	ID                 uuid.UUID        `json:"id"`
	InventoryItemID    uuid.UUID        `json:"inventory_item_id"`
	Type               string           `json:"type"`
	Quantity           decimal.Decimal  `json:"quantity"`
	Unit               string           `json:"unit"`
	QuantityInBaseUnit decimal.Decimal  `json:"quantity_in_base_unit"`
	PreviousStock      decimal.Decimal  `json:"previous_stock"`
	NewStock           decimal.Decimal  `json:"new_stock"`
	UnitCost           *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType      string           `json:"reference_type"`
	ReferenceID        *uuid.UUID       `json:"reference_id,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	RecordedBy         *uuid.UUID       `json:"recorded_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// TransactionListFilter represents filter options for an item's transaction log
type TransactionListFilter struct {
	Type     string     `form:"type" binding:"omitempty,oneof=purchase packaging adjustment_add adjustment_remove waste"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LedgerVerificationResponse reports a replay of an item's transaction log
type LedgerVerificationResponse struct {
	InventoryItemID  uuid.UUID       `json:"inventory_item_id"`
	TransactionCount int             `json:"transaction_count"`
	ReplayedStock    decimal.Decimal `json:"replayed_stock"`
	RecordedStock    decimal.Decimal `json:"recorded_stock"`
	Consistent       bool            `json:"consistent"`
	BrokenAt         *uuid.UUID      `json:"broken_at,omitempty"`
}

// CreatePurchaseRequest represents a supplier purchase to record
type CreatePurchaseRequest struct {
	InventoryItemID uuid.UUID        `json:"inventory_item_id" binding:"required"`
	SupplierID      *uuid.UUID       `json:"supplier_id"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	Unit            string           `json:"unit" binding:"required,oneof=g kg piece liter ml"`
	UnitPrice       decimal.Decimal  `json:"unit_price" binding:"required"`
	TotalCost       *decimal.Decimal `json:"total_cost"`
	Location        string           `json:"purchase_location" binding:"max=200"`
	PurchaseDate    *time.Time       `json:"purchase_date"`
	QualityGrade    string           `json:"quality_grade" binding:"omitempty,oneof=A B C ungraded"`
	PaymentMethod   string           `json:"payment_method" binding:"omitempty,oneof=cash mobile_money bank_transfer"`
	PaymentStatus   string           `json:"payment_status" binding:"omitempty,oneof=paid pending partial"`
	Notes           string           `json:"notes" binding:"max=1000"`
}

// UpdatePurchaseRequest amends a purchase. Quantity fields are accepted by the
// binder and then refused, so the client gets an explicit error.
type UpdatePurchaseRequest struct {
	Notes         *string `json:"notes" binding:"omitempty,max=1000"`
	PaymentStatus *string `json:"payment_status" binding:"omitempty,oneof=paid pending partial"`
	PaymentMethod *string `json:"payment_method" binding:"omitempty,oneof=cash mobile_money bank_transfer"`
	QualityGrade  *string `json:"quality_grade" binding:"omitempty,oneof=A B C ungraded"`
	Location      *string `json:"purchase_location" binding:"omitempty,max=200"`

	InventoryItemID *uuid.UUID       `json:"inventory_item_id"`
	Quantity        *decimal.Decimal `json:"quantity"`
	Unit            *string          `json:"unit"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	TotalCost       *decimal.Decimal `json:"total_cost"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID              uuid.UUID       `json:"id"`
	PurchaseNumber  string          `json:"purchase_number"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	SupplierID      *uuid.UUID      `json:"supplier_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Location        string          `json:"purchase_location"`
	PurchaseDate    time.Time       `json:"purchase_date"`
	QualityGrade    string          `json:"quality_grade"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	Notes           string          `json:"notes"`
	RecordedBy      *uuid.UUID      `json:"recorded_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Item            *ItemResponse   `json:"item,omitempty"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	InventoryItemID string     `form:"inventory_item_id" binding:"omitempty,uuid"`
	SupplierID      string     `form:"supplier_id" binding:"omitempty,uuid"`
	PaymentStatus   string     `form:"payment_status" binding:"omitempty,oneof=paid pending partial"`
	From            *time.Time `form:"from" time_format:"2006-01-02"`
	To              *time.Time `form:"to" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OpenBatchRequest represents a request to start a packaging run
type OpenBatchRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	WeightTaken     decimal.Decimal `json:"weight_taken" binding:"required"`
	Notes           string          `json:"notes" binding:"max=1000"`
}

// UpdateBatchRequest edits an in-progress batch
type UpdateBatchRequest struct {
	ActualWeight *decimal.Decimal `json:"actual_weight"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
}

// AddPackagedItemRequest adds a product line to a batch
type AddPackagedItemRequest struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required,min=1"`
	UnitWeight   decimal.Decimal  `json:"unit_weight" binding:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
}

// UpdatePackagedItemRequest edits a product line
type UpdatePackagedItemRequest struct {
	Quantity     *int             `json:"quantity" binding:"omitempty,min=1"`
	UnitWeight   *decimal.Decimal `json:"unit_weight"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
}

// CancelBatchRequest carries the optional cancellation reason
type CancelBatchRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PackagedItemResponse represents a batch line in API responses
type PackagedItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitWeight   decimal.Decimal `json:"unit_weight"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// BatchResponse represents a packaging batch in API responses
type BatchResponse struct {
	ID                  uuid.UUID              `json:"id"`
	BatchNumber         string                 `json:"batch_number"`
	InventoryItemID     uuid.UUID              `json:"inventory_item_id"`
	WeightTaken         decimal.Decimal        `json:"weight_taken"`
	ActualWeight        decimal.Decimal        `json:"actual_weight"`
	WeightVariance      decimal.Decimal        `json:"weight_variance"`
	PackagedItems       []PackagedItemResponse `json:"packaged_items"`
	TotalPackagedWeight decimal.Decimal        `json:"total_packaged_weight"`
	WasteWeight         decimal.Decimal        `json:"waste_weight"`
	Efficiency          int                    `json:"efficiency"`
	Status              string                 `json:"status"`
	Notes               string                 `json:"notes"`
	ProcessedBy         *uuid.UUID             `json:"processed_by,omitempty"`
	CompletedAt         *time.Time             `json:"completed_at,omitempty"`
	CancelledAt         *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// BatchListFilter represents filter options for the batch list
type BatchListFilter struct {
	Status          string     `form:"status" binding:"omitempty,oneof=in_progress completed cancelled"`
	InventoryItemID string     `form:"inventory_item_id" binding:"omitempty,uuid"`
	From            *time.Time `form:"from" time_format:"2006-01-02"`
	To              *time.Time `form:"to" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToItemResponse converts a domain InventoryItem to its response DTO
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		Category:       item.Category,
		Unit:           item.Unit.String(),
		BaseUnit:       item.Unit.BaseUnit().String(),
		CurrentStock:   item.CurrentStock,
		FormattedStock: item.FormattedStock(),
		ReorderLevel:   item.ReorderLevel,
		AverageCost:    item.AverageCost,
		TotalValue:     item.TotalValue,
		IsLowStock:     item.IsLowStock(),
		IsActive:       item.IsActive,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		Version:        item.Version,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ToTransactionResponse converts a domain InventoryTransaction to its response DTO
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                 tx.ID,
		InventoryItemID:    tx.InventoryItemID,
		Type:               tx.Type.String(),
		Quantity:           tx.Quantity,
		Unit:               tx.Unit.String(),
		QuantityInBaseUnit: tx.QuantityInBaseUnit,
		PreviousStock:      tx.PreviousStock,
		NewStock:           tx.NewStock,
		ReferenceType:      string(tx.Reference.Kind()),
		Notes:              tx.Notes,
		RecordedBy:         tx.RecordedBy,
		CreatedAt:          tx.CreatedAt,
	}
	if tx.UnitCost.Valid {
		cost := tx.UnitCost.Decimal
		resp.UnitCost = &cost
	}
	if id := tx.Reference.DocumentID(); id != uuid.Nil {
		resp.ReferenceID = &id
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// ToPurchaseResponse converts a domain Purchase to its response DTO
func ToPurchaseResponse(p *inventory.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:              p.ID,
		PurchaseNumber:  p.PurchaseNumber,
		InventoryItemID: p.InventoryItemID,
		SupplierID:      p.SupplierID,
		Quantity:        p.Quantity,
		Unit:            p.Unit.String(),
		UnitPrice:       p.UnitPrice,
		TotalCost:       p.TotalCost,
		Location:        p.Location,
		PurchaseDate:    p.PurchaseDate,
		QualityGrade:    string(p.QualityGrade),
		PaymentMethod:   string(p.PaymentMethod),
		PaymentStatus:   string(p.PaymentStatus),
		Notes:           p.Notes,
		RecordedBy:      p.RecordedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToBatchResponse converts a domain PackagingBatch to its response DTO
func ToBatchResponse(b *inventory.PackagingBatch) BatchResponse {
	lines := make([]PackagedItemResponse, len(b.PackagedItems))
	for i, line := range b.PackagedItems {
		lines[i] = PackagedItemResponse{
			ID:           line.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			UnitWeight:   line.UnitWeight,
			TotalWeight:  line.TotalWeight,
			SellingPrice: line.SellingPrice,
		}
	}
	return BatchResponse{
		ID:                  b.ID,
		BatchNumber:         b.BatchNumber,
		InventoryItemID:     b.InventoryItemID,
		WeightTaken:         b.WeightTaken,
		ActualWeight:        b.ActualWeight,
		WeightVariance:      b.WeightVariance,
		PackagedItems:       lines,
		TotalPackagedWeight: b.TotalPackagedWeight,
		WasteWeight:         b.WasteWeight,
		Efficiency:          b.Efficiency(),
		Status:              string(b.Status),
		Notes:               b.Notes,
		ProcessedBy:         b.ProcessedBy,
		CompletedAt:         b.CompletedAt,
		CancelledAt:         b.CancelledAt,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// pageDefaults fills in page and page size
func pageDefaults(page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}

// dateRange turns day-granular query bounds into an inclusive range.
// To is moved to the last instant of its day.
func dateRange(from, to *time.Time) shared.DateRange {
	r := shared.DateRange{From: from}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.To = &end
	}
	return r
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, shared.NewValidationError("invalid id " + s)
	}
	return &id, nil
}
