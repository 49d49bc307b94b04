// Package catalog defines the membership plans on offer and the read-only
// table they are looked up in.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Feature is a paid add-on offered by a plan, priced per member.
type Feature struct {
	Code        string `json:"code" yaml:"code" validate:"required,uppercase"`
	Description string `json:"description" yaml:"description"`
	Price       int    `json:"price" yaml:"price" validate:"gt=0"`
}

// Plan is a membership tier. Plans are values; the catalog hands out copies.
type Plan struct {
	Code      string    `json:"code" yaml:"code" validate:"required,uppercase"`
	Name      string    `json:"name" yaml:"name" validate:"required"`
	BasePrice int       `json:"base_price" yaml:"base_price" validate:"gt=0"` // per member
	Premium   bool      `json:"premium" yaml:"premium"`
	Features  []Feature `json:"features" yaml:"features" validate:"unique=Code,dive"`
}

// FeaturePrice returns the per-member price of the feature with the given
// code. Codes are matched exactly.
func (p Plan) FeaturePrice(code string) (int, bool) {
	for _, f := range p.Features {
		if f.Code == code {
			return f.Price, true
		}
	}
	return 0, false
}

// FeatureCodes returns the plan's feature codes in menu order.
func (p Plan) FeatureCodes() []string {
	codes := make([]string, len(p.Features))
	for i, f := range p.Features {
		codes[i] = f.Code
	}
	return codes
}

func (p Plan) clone() Plan {
	p.Features = slices.Clone(p.Features)
	return p
}

// Catalog is an immutable set of plans keyed by code.
type Catalog struct {
	plans []Plan
	index map[string]int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New validates the given plans and returns a catalog holding copies of them.
func New(plans ...Plan) (*Catalog, error) {
	c := &Catalog{
		plans: make([]Plan, 0, len(plans)),
		index: make(map[string]int, len(plans)),
	}
	for _, p := range plans {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("catalog: invalid plan %q: %w", p.Code, err)
		}
		if _, dup := c.index[p.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate plan code %q", p.Code)
		}
		c.index[p.Code] = len(c.plans)
		c.plans = append(c.plans, p.clone())
	}
	return c, nil
}

// Lookup returns the plan for code. The comparison is case-insensitive.
func (c *Catalog) Lookup(code string) (Plan, bool) {
	i, ok := c.index[strings.ToUpper(code)]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i].clone(), true
}

// Plans returns every plan in declaration order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	for i, p := range c.plans {
		out[i] = p.clone()
	}
	return out
}

// Len returns the number of plans.
func (c *Catalog) Len() int { return len(c.plans) }

// Default returns the built-in plan table. It is built once and shared.
var Default = sync.OnceValue(func() *Catalog {
	c, err := New(defaultPlans()...)
	if err != nil {
		panic(err)
	}
	return c
})

func defaultPlans() []Plan {
	return []Plan{
		{
			Code:      "BASIC",
			Name:      "Basic",
			BasePrice: 50,
			Premium:   false,
			Features: []Feature{
				{Code: "CG", Description: "Group classes", Price: 20},
				{Code: "LK", Description: "Locker access", Price: 10},
			},
		},
		{
			Code:      "PREMIUM",
			Name:      "Premium",
			BasePrice: 100,
			Premium:   true,
			Features: []Feature{
				{Code: "EP", Description: "Personal trainer", Price: 40},
				{Code: "SPA", Description: "Spa and relaxation area", Price: 30},
				{Code: "CI", Description: "Unlimited classes", Price: 35},
			},
		},
		{
			Code:      "FAMILY",
			Name:      "Family",
			BasePrice: 150,
			Premium:   false,
			Features: []Feature{
				{Code: "CF", Description: "Family classes", Price: 30},
				{Code: "GD", Description: "Childcare", Price: 25},
			},
		},
	}
}
