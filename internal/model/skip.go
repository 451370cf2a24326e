package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Skip is one rentable skip as returned by the by-location endpoint.
type Skip struct {
	ID             int             `json:"id"`
	Size           int             `json:"size"` // cubic yards
	PriceBeforeVAT decimal.Decimal `json:"price_before_vat"`
	VAT            decimal.Decimal `json:"vat"` // percentage, 20 means 20%
	HirePeriodDays int             `json:"hire_period_days"`
	AllowedOnRoad  bool            `json:"allowed_on_road"`
}

// TotalPrice is the price including VAT, unrounded.
func (s Skip) TotalPrice() decimal.Decimal {
	return s.PriceBeforeVAT.Add(s.PriceBeforeVAT.Mul(s.VAT).Div(hundred))
}

// DisplayTotal is the total rounded to whole pounds, for display only.
func (s Skip) DisplayTotal() string {
	return s.TotalPrice().Round(0).StringFixed(0)
}

// SortBySize orders skips by ascending size in place.
// Skips of equal size keep their relative order.
func SortBySize(skips []Skip) {
	sort.SliceStable(skips, func(i, j int) bool { return skips[i].Size < skips[j].Size })
}

// FindByID returns the skip with the given id.
func FindByID(skips []Skip, id int) (Skip, bool) {
	for _, s := range skips {
		if s.ID == id {
			return s, true
		}
	}
	return Skip{}, false
}

// Selection is the skip a user chose to continue with.
type Selection struct {
	Postcode   string    `json:"postcode"`
	Area       string    `json:"area"`
	Skip       Skip      `json:"skip"`
	Total      string    `json:"total"`
	SelectedAt time.Time `json:"selected_at"`
}
