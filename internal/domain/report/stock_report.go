package report

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// uncategorized labels items with an empty category
const uncategorized = "Uncategorized"

// StockValueRow is the projection of one active inventory item
type StockValueRow struct {
	Category     string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	TotalValue   decimal.Decimal
}

// CategoryValue groups stock value by category
type CategoryValue struct {
	Category   string          `json:"category" msgpack:"category"`
	TotalValue decimal.Decimal `json:"total_value" msgpack:"total_value"`
	ItemCount  int             `json:"item_count" msgpack:"item_count"`
}

// StockValueReport summarizes the value of active bulk stock
type StockValueReport struct {
	TotalValue    decimal.Decimal `json:"total_value" msgpack:"total_value"`
	TotalItems    int             `json:"total_items" msgpack:"total_items"`
	LowStockCount int             `json:"low_stock_count" msgpack:"low_stock_count"`
	ByCategory    []CategoryValue `json:"by_category" msgpack:"by_category"`
}

// BuildStockValueReport aggregates item rows. Categories are sorted by value, highest first.
func BuildStockValueReport(rows []StockValueRow) StockValueReport {
	r := StockValueReport{TotalValue: decimal.Zero, ByCategory: make([]CategoryValue, 0)}
	index := make(map[string]int)
	for _, row := range rows {
		r.TotalItems++
		r.TotalValue = r.TotalValue.Add(row.TotalValue)
		if row.CurrentStock.LessThanOrEqual(row.ReorderLevel) {
			r.LowStockCount++
		}

		category := row.Category
		if category == "" {
			category = uncategorized
		}
		i, ok := index[category]
		if !ok {
			i = len(r.ByCategory)
			index[category] = i
			r.ByCategory = append(r.ByCategory, CategoryValue{Category: category, TotalValue: decimal.Zero})
		}
		r.ByCategory[i].TotalValue = r.ByCategory[i].TotalValue.Add(row.TotalValue)
		r.ByCategory[i].ItemCount++
	}
	sort.SliceStable(r.ByCategory, func(a, b int) bool {
		return r.ByCategory[a].TotalValue.GreaterThan(r.ByCategory[b].TotalValue)
	})
	return r
}

// PurchaseRow is the projection of one purchase joined with its item and supplier
type PurchaseRow struct {
	InventoryItemID uuid.UUID
	ItemName        string
	SupplierID      *uuid.UUID
	SupplierName    string
	Quantity        decimal.Decimal
	Unit            inventory.Unit
	TotalCost       decimal.Decimal
}

// ItemPurchaseSummary groups purchases by inventory item
type ItemPurchaseSummary struct {
	ItemID        uuid.UUID       `json:"item_id" msgpack:"item_id"`
	ItemName      string          `json:"item_name" msgpack:"item_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity" msgpack:"total_quantity"` // base units
	TotalSpent    decimal.Decimal `json:"total_spent" msgpack:"total_spent"`
	PurchaseCount int             `json:"purchase_count" msgpack:"purchase_count"`
}

// SupplierPurchaseSummary groups purchases by supplier. Purchases without a
// supplier are grouped under a nil SupplierID.
type SupplierPurchaseSummary struct {
	SupplierID    *uuid.UUID      `json:"supplier_id" msgpack:"supplier_id"`
	SupplierName  string          `json:"supplier_name" msgpack:"supplier_name"`
	TotalSpent    decimal.Decimal `json:"total_spent" msgpack:"total_spent"`
	PurchaseCount int             `json:"purchase_count" msgpack:"purchase_count"`
}

// PurchaseSummaryReport summarizes purchase spending
type PurchaseSummaryReport struct {
	TotalSpent     decimal.Decimal           `json:"total_spent" msgpack:"total_spent"`
	TotalPurchases int                       `json:"total_purchases" msgpack:"total_purchases"`
	ByItem         []ItemPurchaseSummary     `json:"by_item" msgpack:"by_item"`
	BySupplier     []SupplierPurchaseSummary `json:"by_supplier" msgpack:"by_supplier"`
}

// BuildPurchaseSummary aggregates purchase rows, ordered by spend
func BuildPurchaseSummary(rows []PurchaseRow) PurchaseSummaryReport {
	r := PurchaseSummaryReport{
		TotalSpent: decimal.Zero,
		ByItem:     make([]ItemPurchaseSummary, 0),
		BySupplier: make([]SupplierPurchaseSummary, 0),
	}
	items := make(map[uuid.UUID]int)
	suppliers := make(map[uuid.UUID]int)
	for _, row := range rows {
		r.TotalPurchases++
		r.TotalSpent = r.TotalSpent.Add(row.TotalCost)

		i, ok := items[row.InventoryItemID]
		if !ok {
			i = len(r.ByItem)
			items[row.InventoryItemID] = i
			r.ByItem = append(r.ByItem, ItemPurchaseSummary{
				ItemID:        row.InventoryItemID,
				ItemName:      row.ItemName,
				TotalQuantity: decimal.Zero,
				TotalSpent:    decimal.Zero,
			})
		}
		r.ByItem[i].TotalQuantity = r.ByItem[i].TotalQuantity.Add(row.Quantity.Mul(row.Unit.Factor()))
		r.ByItem[i].TotalSpent = r.ByItem[i].TotalSpent.Add(row.TotalCost)
		r.ByItem[i].PurchaseCount++

		key := uuid.Nil
		if row.SupplierID != nil {
			key = *row.SupplierID
		}
		j, ok := suppliers[key]
		if !ok {
			j = len(r.BySupplier)
			suppliers[key] = j
			r.BySupplier = append(r.BySupplier, SupplierPurchaseSummary{
				SupplierID:   row.SupplierID,
				SupplierName: row.SupplierName,
				TotalSpent:   decimal.Zero,
			})
		}
		r.BySupplier[j].TotalSpent = r.BySupplier[j].TotalSpent.Add(row.TotalCost)
		r.BySupplier[j].PurchaseCount++
	}
	sort.SliceStable(r.ByItem, func(a, b int) bool {
		return r.ByItem[a].TotalSpent.GreaterThan(r.ByItem[b].TotalSpent)
	})
	sort.SliceStable(r.BySupplier, func(a, b int) bool {
		return r.BySupplier[a].TotalSpent.GreaterThan(r.BySupplier[b].TotalSpent)
	})
	return r
}

// BatchRow is the projection of one completed packaging batch
type BatchRow struct {
	InventoryItemID     uuid.UUID
	ItemName            string
	ActualWeight        decimal.Decimal
	TotalPackagedWeight decimal.Decimal
	WasteWeight         decimal.Decimal
}

// efficiency mirrors PackagingBatch.Efficiency for a projected row
func (b BatchRow) efficiency() decimal.Decimal {
	if !b.ActualWeight.IsPositive() {
		return decimal.Zero
	}
	return b.TotalPackagedWeight.Div(b.ActualWeight).Mul(decimal.NewFromInt(100)).Round(0)
}

// ItemEfficiency groups completed batches by inventory item
type ItemEfficiency struct {
	ItemID               uuid.UUID       `json:"item_id" msgpack:"item_id"`
	ItemName             string          `json:"item_name" msgpack:"item_name"`
	BatchCount           int             `json:"batch_count" msgpack:"batch_count"`
	TotalWeightProcessed decimal.Decimal `json:"total_weight_processed" msgpack:"total_weight_processed"`
	TotalPackagedWeight  decimal.Decimal `json:"total_packaged_weight" msgpack:"total_packaged_weight"`
	TotalWaste           decimal.Decimal `json:"total_waste" msgpack:"total_waste"`
	AverageEfficiency    decimal.Decimal `json:"average_efficiency" msgpack:"average_efficiency"`

	efficiencySum decimal.Decimal
}

// PackagingEfficiencyReport summarizes completed packaging batches.
// Negative waste is kept as entered so over-packing shows up here.
type PackagingEfficiencyReport struct {
	TotalBatches         int              `json:"total_batches" msgpack:"total_batches"`
	TotalWeightProcessed decimal.Decimal  `json:"total_weight_processed" msgpack:"total_weight_processed"`
	TotalPackagedWeight  decimal.Decimal  `json:"total_packaged_weight" msgpack:"total_packaged_weight"`
	TotalWaste           decimal.Decimal  `json:"total_waste" msgpack:"total_waste"`
	AverageEfficiency    decimal.Decimal  `json:"average_efficiency" msgpack:"average_efficiency"`
	ByItem               []ItemEfficiency `json:"by_item" msgpack:"by_item"`
}

// BuildPackagingEfficiency aggregates batch rows. AverageEfficiency is the
// mean of per-batch efficiencies, rounded to two places.
func BuildPackagingEfficiency(rows []BatchRow) PackagingEfficiencyReport {
	r := PackagingEfficiencyReport{
		TotalWeightProcessed: decimal.Zero,
		TotalPackagedWeight:  decimal.Zero,
		TotalWaste:           decimal.Zero,
		AverageEfficiency:    decimal.Zero,
		ByItem:               make([]ItemEfficiency, 0),
	}
	index := make(map[uuid.UUID]int)
	sum := decimal.Zero
	for _, row := range rows {
		eff := row.efficiency()
		r.TotalBatches++
		r.TotalWeightProcessed = r.TotalWeightProcessed.Add(row.ActualWeight)
		r.TotalPackagedWeight = r.TotalPackagedWeight.Add(row.TotalPackagedWeight)
		r.TotalWaste = r.TotalWaste.Add(row.WasteWeight)
		sum = sum.Add(eff)

		i, ok := index[row.InventoryItemID]
		if !ok {
			i = len(r.ByItem)
			index[row.InventoryItemID] = i
			r.ByItem = append(r.ByItem, ItemEfficiency{
				ItemID:               row.InventoryItemID,
				ItemName:             row.ItemName,
				TotalWeightProcessed: decimal.Zero,
				TotalPackagedWeight:  decimal.Zero,
				TotalWaste:           decimal.Zero,
				efficiencySum:        decimal.Zero,
			})
		}
		item := &r.ByItem[i]
		item.BatchCount++
		item.TotalWeightProcessed = item.TotalWeightProcessed.Add(row.ActualWeight)
		item.TotalPackagedWeight = item.TotalPackagedWeight.Add(row.TotalPackagedWeight)
		item.TotalWaste = item.TotalWaste.Add(row.WasteWeight)
		item.efficiencySum = item.efficiencySum.Add(eff)
	}
	if r.TotalBatches > 0 {
		r.AverageEfficiency = sum.Div(decimal.NewFromInt(int64(r.TotalBatches))).Round(2)
	}
	for i := range r.ByItem {
		item := &r.ByItem[i]
		item.AverageEfficiency = item.efficiencySum.Div(decimal.NewFromInt(int64(item.BatchCount))).Round(2)
	}
	sort.SliceStable(r.ByItem, func(a, b int) bool {
		return r.ByItem[a].TotalWeightProcessed.GreaterThan(r.ByItem[b].TotalWeightProcessed)
	})
	return r
}

// Repository projects the rows the reports aggregate
type Repository interface {
	// StockValueRows returns active items created within the period
	StockValueRows(ctx context.Context, period shared.DateRange) ([]StockValueRow, error)

	// PurchaseRows returns purchases dated within the period
	PurchaseRows(ctx context.Context, period shared.DateRange) ([]PurchaseRow, error)

	// CompletedBatchRows returns completed batches created within the period
	CompletedBatchRows(ctx context.Context, period shared.DateRange) ([]BatchRow, error)
}
