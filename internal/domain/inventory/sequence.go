package inventory

import (
	"fmt"
	"time"
)

// Sequence number limits per scope
const (
	MaxPurchaseSequence = 99999
	MaxBatchSequence    = 999
)

// PurchaseSequenceScope is the monthly counter scope, e.g. PUR2603
func PurchaseSequenceScope(t time.Time) string {
	return fmt.Sprintf("PUR%02d%02d", t.Year()%100, int(t.Month()))
}

// BatchSequenceScope is the daily counter scope, e.g. PKG260314
func BatchSequenceScope(t time.Time) string {
	return fmt.Sprintf("PKG%02d%02d%02d", t.Year()%100, int(t.Month()), t.Day())
}

// PurchaseNumber formats PUR + YY + MM + 5-digit sequence
func PurchaseNumber(t time.Time, seq int64) (string, error) {
	if seq < 1 || seq > MaxPurchaseSequence {
		return "", fmt.Errorf("purchase sequence %d out of range for %s", seq, PurchaseSequenceScope(t))
	}
	return fmt.Sprintf("%s%05d", PurchaseSequenceScope(t), seq), nil
}

// BatchNumber formats PKG + YY + MM + DD + "-" + 3-digit daily sequence
func BatchNumber(t time.Time, seq int64) (string, error) {
	if seq < 1 || seq > MaxBatchSequence {
		return "", fmt.Errorf("batch sequence %d out of range for %s", seq, BatchSequenceScope(t))
	}
	return fmt.Sprintf("%s-%03d", BatchSequenceScope(t), seq), nil
}
