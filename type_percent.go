package billbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage rate (10.5 means 10.5%).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// Decimal returns the rate as an exact decimal for monetary arithmetic.
func (p Percent) Decimal() decimal.Decimal { return decimal.NewFromFloat(float64(p)) }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
