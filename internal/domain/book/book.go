package book

import "time"

// DefaultWeightGrams is assumed for titles whose physical weight was never
// recorded, so delivery charges stay computable.
const DefaultWeightGrams = 300

type Format string

const (
	FormatPaperback Format = "Paperback"
	FormatHardcover Format = "Hardcover"
	FormatEbook     Format = "E-book"
	FormatAudiobook Format = "Audiobook"
)

type Book struct {
	ID          int64
	Title       string
	Author      string
	Publisher   string
	Format      Format
	Price       float64
	Stock       int64
	Available   bool
	WeightGrams int64
	CreatedAt   time.Time
}

// UnitWeight returns the recorded weight, falling back to DefaultWeightGrams.
func (b *Book) UnitWeight() int64 {
	if b.WeightGrams <= 0 {
		return DefaultWeightGrams
	}
	return b.WeightGrams
}

type ListFilter struct {
	Search        string
	OnlyAvailable bool
}

// StockAdjustment is one entry of a bulk stock mutation. A negative delta
// commits stock for a confirmed order, a positive delta restores it after a
// cancellation.
type StockAdjustment struct {
	BookID int64
	Delta  int64
}
