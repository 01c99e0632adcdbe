package entities

// QuoteExtra is a priced line of a quote, in request order.
type QuoteExtra struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

// Quote is the price breakdown for a court slot plus extras.
type Quote struct {
	CourtID  int64        `json:"court_id"`
	SlotID   int64        `json:"slot_id"`
	Subtotal float64      `json:"subtotal"`
	Extras   []QuoteExtra `json:"extras"`
	Total    float64      `json:"total"`
}

// BookingExtras folds repeated extra tags into quantities, keeping first-seen order.
func (q Quote) BookingExtras() []BookingExtra {
	out := make([]BookingExtra, 0, len(q.Extras))
	index := make(map[string]int, len(q.Extras))
	for _, e := range q.Extras {
		if i, ok := index[e.Type]; ok {
			out[i].Quantity++
			continue
		}
		index[e.Type] = len(out)
		out = append(out, BookingExtra{Type: e.Type, UnitPrice: e.Price, Quantity: 1})
	}
	return out
}
