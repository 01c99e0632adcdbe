package response

import "sports_booking/internal/domain/entities"

type QuoteExtraResponse struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

type QuoteResponse struct {
	CourtID  int64                `json:"court_id"`
	SlotID   int64                `json:"slot_id"`
	Subtotal float64              `json:"subtotal"`
	Extras   []QuoteExtraResponse `json:"extras"`
	Total    float64              `json:"total"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	extras := make([]QuoteExtraResponse, 0, len(q.Extras))
	for _, e := range q.Extras {
		extras = append(extras, QuoteExtraResponse{Type: e.Type, Price: e.Price})
	}
	return QuoteResponse{
		CourtID:  q.CourtID,
		SlotID:   q.SlotID,
		Subtotal: q.Subtotal,
		Extras:   extras,
		Total:    q.Total,
	}
}
