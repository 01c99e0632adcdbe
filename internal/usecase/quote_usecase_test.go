package usecase

import "testing"

func TestQuoteUseCase_Calculate(t *testing.T) {
	uc := NewQuoteUseCase(DefaultPriceTable())

	t.Run("no extras", func(t *testing.T) {
		q := uc.Calculate(1, 2, nil)
		if q.Subtotal != 50.0 || q.Total != 50.0 {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if len(q.Extras) != 0 {
			t.Fatalf("expected no extras, got %+v", q.Extras)
		}
	})

	t.Run("known extras", func(t *testing.T) {
		q := uc.Calculate(1, 2, []string{"ball", "vest"})
		if q.Total != 63.0 {
			t.Fatalf("expected 63.0, got %v", q.Total)
		}
		if len(q.Extras) != 2 {
			t.Fatalf("expected 2 extras, got %+v", q.Extras)
		}
	})

	t.Run("unknown extras price at zero", func(t *testing.T) {
		q := uc.Calculate(1, 2, []string{"towel", "lights"})
		if q.Extras[0].Type != "towel" || q.Extras[0].Price != 0 {
			t.Fatalf("unexpected unknown extra: %+v", q.Extras[0])
		}
		if q.Total != 62.0 {
			t.Fatalf("expected 62.0, got %v", q.Total)
		}
	})

	t.Run("total is subtotal plus extras and order is kept", func(t *testing.T) {
		in := []string{"lights", "ball", "unknown", "ball", "vest"}
		q := uc.Calculate(3, 4, in)

		sum := q.Subtotal
		for i, e := range q.Extras {
			if e.Type != in[i] {
				t.Fatalf("extra %d: expected %s, got %s", i, in[i], e.Type)
			}
			sum += e.Price
		}
		if q.Total != sum {
			t.Fatalf("expected total %v, got %v", sum, q.Total)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := uc.Calculate(1, 2, []string{"ball"})
		b := uc.Calculate(1, 2, []string{"ball"})
		if a.Total != b.Total || a.Subtotal != b.Subtotal || len(a.Extras) != len(b.Extras) {
			t.Fatalf("expected identical quotes: %+v vs %+v", a, b)
		}
	})
}
