package billbook

import (
	"testing"
)

func TestMoneySplitEven(t *testing.T) {
	testCases := []struct {
		name     string
		total    Money
		n        int
		wantSlot Money
		wantLast Money
	}{
		{
			name:  "exact split",
			total: M(13200, "INR"), n: 12,
			wantSlot: M(1100, "INR"), wantLast: M(1100, "INR"),
		},
		{
			name:  "residual absorbed by last slot",
			total: M(1000, "INR"), n: 3,
			wantSlot: M(333.33, "INR"), wantLast: M(333.34, "INR"),
		},
		{
			name:  "single slot",
			total: M(999.99, "INR"), n: 1,
			wantSlot: M(999.99, "INR"), wantLast: M(999.99, "INR"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slot, last := tc.total.SplitEven(tc.n)
			if !slot.Equal(tc.wantSlot) {
				t.Errorf("slot = %s, want %s", slot.Decimal(), tc.wantSlot.Decimal())
			}
			if !last.Equal(tc.wantLast) {
				t.Errorf("last = %s, want %s", last.Decimal(), tc.wantLast.Decimal())
			}
			// The slots must sum back to the total exactly, no rounding leakage.
			sum := M(0, tc.total.Currency())
			for i := 0; i < tc.n-1; i++ {
				sum = sum.Add(slot)
			}
			sum = sum.Add(last)
			if !sum.Equal(tc.total) {
				t.Errorf("slots sum to %s, want %s", sum.Decimal(), tc.total.Decimal())
			}
		})
	}
}

func TestMoneyPercentage(t *testing.T) {
	p := M(12000, "INR").Percentage(Percent(10).Decimal())
	if !p.Equal(M(1200, "INR")) {
		t.Errorf("10%% of 12000 = %s", p.Decimal())
	}
	zero := M(12000, "INR").Percentage(Percent(0).Decimal())
	if !zero.IsZero() {
		t.Errorf("0%% of 12000 = %s", zero.Decimal())
	}
}

func TestMoneyNoDrift(t *testing.T) {
	// 0.1 added ten thousand times is exactly 1000 in decimal arithmetic.
	sum := M(0, "INR")
	tenth := M(0.1, "INR")
	for i := 0; i < 10000; i++ {
		sum = sum.Add(tenth)
	}
	if !sum.Equal(M(1000, "INR")) {
		t.Errorf("sum = %s, want 1000", sum.Decimal())
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding INR and USD did not panic")
		}
	}()
	M(1, "INR").Add(M(1, "USD"))
}
