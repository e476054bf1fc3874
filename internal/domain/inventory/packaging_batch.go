package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle state of a packaging batch
type BatchStatus string

const (
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusCancelled  BatchStatus = "cancelled"
)

// IsValid returns true if the status is known
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusInProgress, BatchStatusCompleted, BatchStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusCancelled
}

// CanTransitionTo reports whether the state machine allows s -> target
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	return s == BatchStatusInProgress && target.IsTerminal()
}

// PackagedItem is one retail product line produced by a batch
type PackagedItem struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Quantity     int
	UnitWeight   decimal.Decimal // base units per package
	TotalWeight  decimal.Decimal
	SellingPrice decimal.Decimal
}

func (p *PackagedItem) recalculate() {
	p.TotalWeight = p.UnitWeight.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// PackagedItemInput describes a packaged line to add
type PackagedItemInput struct {
	ProductID    uuid.UUID
	ProductName  string
	Quantity     int
	UnitWeight   decimal.Decimal
	SellingPrice decimal.Decimal
}

func validatePackagedLine(quantity int, unitWeight, sellingPrice decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewValidationError("packaged quantity must be positive")
	}
	if !unitWeight.IsPositive() {
		return shared.NewValidationError("unit weight must be positive")
	}
	if sellingPrice.IsNegative() {
		return shared.NewValidationError("selling price cannot be negative")
	}
	return nil
}

// PackagedItemChange edits an existing line. Nil fields are left unchanged.
type PackagedItemChange struct {
	Quantity     *int
	UnitWeight   *decimal.Decimal
	SellingPrice *decimal.Decimal
}

// PackagingBatch moves bulk stock into retail packages.
// Weight is deducted from the item when the batch is opened; completion
// credits product stock and cancellation returns WeightTaken.
type PackagingBatch struct {
	shared.BaseAggregateRoot
	BatchNumber         string
	InventoryItemID     uuid.UUID
	WeightTaken         decimal.Decimal
	ActualWeight        decimal.Decimal
	WeightVariance      decimal.Decimal
	PackagedItems       []PackagedItem
	TotalPackagedWeight decimal.Decimal
	WasteWeight         decimal.Decimal
	Status              BatchStatus
	Notes               string
	ProcessedBy         *uuid.UUID
	CompletedAt         *time.Time
	CancelledAt         *time.Time
}

// NewPackagingBatch opens a batch in progress with ActualWeight = WeightTaken
func NewPackagingBatch(batchNumber string, itemID uuid.UUID, weightTaken decimal.Decimal, notes string, processedBy *uuid.UUID) (*PackagingBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewValidationError("batch number is required")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("inventory item is required")
	}
	if !weightTaken.IsPositive() {
		return nil, shared.NewValidationError("weight taken must be positive")
	}
	b := &PackagingBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchNumber:       batchNumber,
		InventoryItemID:   itemID,
		WeightTaken:       weightTaken,
		ActualWeight:      weightTaken,
		PackagedItems:     make([]PackagedItem, 0),
		Status:            BatchStatusInProgress,
		Notes:             notes,
		ProcessedBy:       processedBy,
	}
	b.recalculate()
	b.AddDomainEvent(newPackagingBatchEvent(EventTypePackagingBatchOpened, b))
	return b, nil
}

// StockMovement returns the packaging deduction for WeightTaken
func (b *PackagingBatch) StockMovement(baseUnit Unit) Movement {
	return Movement{
		Type:       TransactionTypePackaging,
		Quantity:   b.WeightTaken,
		Unit:       baseUnit,
		Reference:  PackagingBatchRef{BatchID: b.ID},
		Notes:      fmt.Sprintf("Packaging batch %s", b.BatchNumber),
		RecordedBy: b.ProcessedBy,
	}
}

// ReturnMovement returns the compensating adjustment for a cancellation.
// It always returns WeightTaken, whatever was weighed or packaged.
func (b *PackagingBatch) ReturnMovement(baseUnit Unit, reason string, recordedBy *uuid.UUID) Movement {
	return Movement{
		Type:       TransactionTypeAdjustmentAdd,
		Quantity:   b.WeightTaken,
		Unit:       baseUnit,
		Reference:  PackagingBatchRef{BatchID: b.ID},
		Notes:      reason,
		RecordedBy: recordedBy,
	}
}

func (b *PackagingBatch) ensureInProgress() error {
	if b.Status != BatchStatusInProgress {
		return shared.NewInvalidStateError(fmt.Sprintf("packaging batch %s is %s and can no longer be changed", b.BatchNumber, b.Status))
	}
	return nil
}

// AddPackagedItem appends a product line
func (b *PackagingBatch) AddPackagedItem(in PackagedItemInput) (*PackagedItem, error) {
	if err := b.ensureInProgress(); err != nil {
		return nil, err
	}
	if in.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("product is required")
	}
	if err := validatePackagedLine(in.Quantity, in.UnitWeight, in.SellingPrice); err != nil {
		return nil, err
	}
	line := PackagedItem{
		ID:           uuid.New(),
		ProductID:    in.ProductID,
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		UnitWeight:   in.UnitWeight,
		SellingPrice: in.SellingPrice,
	}
	line.recalculate()
	b.PackagedItems = append(b.PackagedItems, line)
	b.touch()
	return &b.PackagedItems[len(b.PackagedItems)-1], nil
}

// UpdatePackagedItem edits a product line
func (b *PackagingBatch) UpdatePackagedItem(lineID uuid.UUID, change PackagedItemChange) (*PackagedItem, error) {
	if err := b.ensureInProgress(); err != nil {
		return nil, err
	}
	idx := b.lineIndex(lineID)
	if idx < 0 {
		return nil, shared.NewNotFoundError("packaged item")
	}
	line := b.PackagedItems[idx]
	if change.Quantity != nil {
		line.Quantity = *change.Quantity
	}
	if change.UnitWeight != nil {
		line.UnitWeight = *change.UnitWeight
	}
	if change.SellingPrice != nil {
		line.SellingPrice = *change.SellingPrice
	}
	if err := validatePackagedLine(line.Quantity, line.UnitWeight, line.SellingPrice); err != nil {
		return nil, err
	}
	line.recalculate()
	b.PackagedItems[idx] = line
	b.touch()
	return &b.PackagedItems[idx], nil
}

// RemovePackagedItem drops a product line
func (b *PackagingBatch) RemovePackagedItem(lineID uuid.UUID) error {
	if err := b.ensureInProgress(); err != nil {
		return err
	}
	idx := b.lineIndex(lineID)
	if idx < 0 {
		return shared.NewNotFoundError("packaged item")
	}
	b.PackagedItems = append(b.PackagedItems[:idx], b.PackagedItems[idx+1:]...)
	b.touch()
	return nil
}

// SetActualWeight records the physically measured weight
func (b *PackagingBatch) SetActualWeight(weight decimal.Decimal) error {
	if err := b.ensureInProgress(); err != nil {
		return err
	}
	if weight.IsNegative() {
		return shared.NewValidationError("actual weight cannot be negative")
	}
	b.ActualWeight = weight
	b.touch()
	return nil
}

// UpdateNotes replaces the batch notes
func (b *PackagingBatch) UpdateNotes(notes string) error {
	if err := b.ensureInProgress(); err != nil {
		return err
	}
	b.Notes = notes
	b.touch()
	return nil
}

// Complete closes the batch. The caller credits product stock for each line
// in the same unit of work.
func (b *PackagingBatch) Complete() error {
	if !b.Status.CanTransitionTo(BatchStatusCompleted) {
		return shared.NewInvalidStateError(fmt.Sprintf("cannot complete packaging batch in %s status", b.Status))
	}
	if len(b.PackagedItems) == 0 {
		return shared.NewValidationError("cannot complete a batch with no packaged items")
	}
	now := time.Now()
	b.Status = BatchStatusCompleted
	b.CompletedAt = &now
	b.touch()
	b.AddDomainEvent(newPackagingBatchEvent(EventTypePackagingBatchCompleted, b))
	return nil
}

// Cancel closes the batch and appends the reason to the notes.
// The caller records the compensating stock return.
func (b *PackagingBatch) Cancel(reason string) error {
	if !b.Status.CanTransitionTo(BatchStatusCancelled) {
		return shared.NewInvalidStateError(fmt.Sprintf("cannot cancel packaging batch in %s status", b.Status))
	}
	now := time.Now()
	b.Status = BatchStatusCancelled
	b.CancelledAt = &now
	b.Notes = appendNote(b.Notes, "Cancelled: "+CancelReason(reason))
	b.touch()
	b.AddDomainEvent(newPackagingBatchEvent(EventTypePackagingBatchCancelled, b))
	return nil
}

// CancelReason substitutes a default for an empty reason
func CancelReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "no reason given"
	}
	return reason
}

// Efficiency is packaged weight as a whole percentage of actual weight
func (b *PackagingBatch) Efficiency() int {
	if !b.ActualWeight.IsPositive() {
		return 0
	}
	pct := b.TotalPackagedWeight.Div(b.ActualWeight).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// ProductCredits sums packaged quantity per product
func (b *PackagingBatch) ProductCredits() map[uuid.UUID]int {
	credits := make(map[uuid.UUID]int, len(b.PackagedItems))
	for _, line := range b.PackagedItems {
		credits[line.ProductID] += line.Quantity
	}
	return credits
}

func (b *PackagingBatch) lineIndex(lineID uuid.UUID) int {
	for i := range b.PackagedItems {
		if b.PackagedItems[i].ID == lineID {
			return i
		}
	}
	return -1
}

// recalculate derives variance, packaged total and waste. Waste may be
// negative when more was packaged than weighed.
func (b *PackagingBatch) recalculate() {
	b.WeightVariance = b.WeightTaken.Sub(b.ActualWeight)
	total := decimal.Zero
	for _, line := range b.PackagedItems {
		total = total.Add(line.TotalWeight)
	}
	b.TotalPackagedWeight = total
	b.WasteWeight = b.ActualWeight.Sub(total)
}

func (b *PackagingBatch) touch() {
	b.recalculate()
	b.UpdatedAt = time.Now()
}

func appendNote(notes, line string) string {
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}

// BatchFilter narrows packaging batch queries
type BatchFilter struct {
	shared.Filter
	Status          BatchStatus
	InventoryItemID *uuid.UUID
	Period          shared.DateRange
}
