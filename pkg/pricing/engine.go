// Package pricing computes the itemised cost of a membership plan.
//
// The computation is a fixed sequence of steps. Later percentage steps apply
// to the running amount, not the original one, so the order is part of the
// contract:
//
//  1. base     = plan base price x members
//  2. extras   = sum of selected feature prices x members
//  3. subtotal = base + extras
//  4. premium plans add a 15% surcharge on the subtotal
//  5. two or more members take 10% off the surcharged amount
//  6. a flat special discount of 50 (over 400) or 20 (over 200) applies to
//     what is left, highest tier only
//  7. the total is floored at zero
//
// Percentages are rounded to whole units with ties away from zero.
package pricing

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
)

// GroupDiscountMinMembers is the member count that unlocks the group discount.
const GroupDiscountMinMembers = 2

var (
	premiumSurchargeRate = decimal.New(15, -2)
	groupDiscountRate    = decimal.New(10, -2)

	maxAmount = decimal.NewFromInt(math.MaxInt)
)

// specialTier is a flat discount granted when the discounted amount is
// strictly greater than above.
type specialTier struct {
	above    int
	discount int
}

// Ordered from the highest threshold down; only the first match applies.
var specialTiers = [...]specialTier{
	{above: 400, discount: 50},
	{above: 200, discount: 20},
}

// Breakdown is the itemised result of Compute.
//
// Total == max(0, Base + Extras + Surcharge - GroupDiscount - SpecialDiscount).
type Breakdown struct {
	Base            int `json:"base" yaml:"base"`
	Extras          int `json:"extras" yaml:"extras"`
	Subtotal        int `json:"subtotal" yaml:"subtotal"`
	Surcharge       int `json:"surcharge" yaml:"surcharge"`
	AfterSurcharge  int `json:"after_surcharge" yaml:"after_surcharge"`
	GroupDiscount   int `json:"group_discount" yaml:"group_discount"`
	Partial         int `json:"partial" yaml:"partial"`
	SpecialDiscount int `json:"special_discount" yaml:"special_discount"`
	Total           int `json:"total" yaml:"total"`
}

// Compute prices plan for members people who all take the listed features.
// Features are summed as listed, so a repeated code is charged once per
// occurrence. A member count too large for the amounts to fit in an int is
// rejected like a non-positive one.
func Compute(plan catalog.Plan, members int, features []string) (Breakdown, error) {
	if members <= 0 {
		return Breakdown{}, &Error{Kind: KindInvalidMemberCount, Plan: plan.Code, Members: members}
	}
	for _, code := range features {
		if _, ok := plan.FeaturePrice(code); !ok {
			return Breakdown{}, &Error{Kind: KindUnknownFeature, Plan: plan.Code, Feature: code}
		}
	}

	perMember := lo.SumBy(features, func(code string) int {
		price, _ := plan.FeaturePrice(code)
		return price
	})
	if overflows(plan, perMember, members) {
		return Breakdown{}, &Error{Kind: KindInvalidMemberCount, Plan: plan.Code, Members: members}
	}

	var b Breakdown
	b.Base = plan.BasePrice * members
	b.Extras = perMember * members
	b.Subtotal = b.Base + b.Extras

	if plan.Premium {
		b.Surcharge = percentOf(b.Subtotal, premiumSurchargeRate)
	}
	b.AfterSurcharge = b.Subtotal + b.Surcharge

	if members >= GroupDiscountMinMembers {
		b.GroupDiscount = percentOf(b.AfterSurcharge, groupDiscountRate)
	}
	b.Partial = b.AfterSurcharge - b.GroupDiscount

	b.SpecialDiscount = specialDiscount(b.Partial)
	b.Total = max(b.Partial-b.SpecialDiscount, 0)

	return b, nil
}

// overflows reports whether the surcharged amount for members would not fit
// in an int.
func overflows(plan catalog.Plan, perMember, members int) bool {
	amount := decimal.NewFromInt(int64(plan.BasePrice)).
		Add(decimal.NewFromInt(int64(perMember))).
		Mul(decimal.NewFromInt(int64(members)))
	if plan.Premium {
		amount = amount.Add(amount.Mul(premiumSurchargeRate).Round(0))
	}
	return amount.GreaterThan(maxAmount)
}

// percentOf returns amount x rate rounded half away from zero.
func percentOf(amount int, rate decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(amount)).Mul(rate).Round(0).IntPart())
}

func specialDiscount(partial int) int {
	for _, tier := range specialTiers {
		if partial > tier.above {
			return tier.discount
		}
	}
	return 0
}
