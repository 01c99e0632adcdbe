package usecase

import (
	"math"
	"sports_booking/internal/domain/entities"
)

// PriceTable is the static pricing used for every quote.
type PriceTable struct {
	Base   float64
	Extras map[string]float64
}

// DefaultPriceTable mirrors the prices published to players.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		Base: 50.0,
		Extras: map[string]float64{
			"ball":   5.0,
			"vest":   8.0,
			"lights": 12.0,
		},
	}
}

// IQuoteUseCase prices a slot. Creation and the standalone quote preview both
// go through Calculate so the estimate stored on a booking is exactly the
// quote a player saw.
type IQuoteUseCase interface {
	Calculate(courtID, slotID int64, extras []string) entities.Quote
}

type QuoteUseCase struct {
	prices PriceTable
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(prices PriceTable) *QuoteUseCase {
	return &QuoteUseCase{prices: prices}
}

// Calculate never fails: unknown extra tags are priced at zero.
func (u *QuoteUseCase) Calculate(courtID, slotID int64, extras []string) entities.Quote {
	q := entities.Quote{
		CourtID:  courtID,
		SlotID:   slotID,
		Subtotal: u.prices.Base,
		Extras:   make([]entities.QuoteExtra, 0, len(extras)),
	}

	total := q.Subtotal
	for _, tag := range extras {
		price := u.prices.Extras[tag]
		q.Extras = append(q.Extras, entities.QuoteExtra{Type: tag, Price: price})
		total += price
	}
	q.Total = roundCents(total)
	return q
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
