// Package tariff prices a participation from its party composition.
package tariff

import (
	"github.com/shopspring/decimal"

	"github.com/gdg-garage/outing-api/internal/models"
)

var (
	AdultRate      = decimal.RequireFromString("25.00")
	ChildRate      = decimal.RequireFromString("15.00")
	MemberDiscount = decimal.RequireFromString("0.70")
)

type Quote struct {
	Amount decimal.Decimal `json:"amount"`
	Tier   string          `json:"tier"`
}

// Compute returns 25.00 per adult plus 15.00 per child, times 0.70 for active members,
// rounded half-up to two decimals.
func Compute(adults, children int, member bool) Quote {
	base := AdultRate.Mul(decimal.NewFromInt(int64(adults))).
		Add(ChildRate.Mul(decimal.NewFromInt(int64(children))))

	if member {
		return Quote{Amount: base.Mul(MemberDiscount).Round(2), Tier: models.TierMember}
	}
	return Quote{Amount: base.Round(2), Tier: models.TierStandard}
}
