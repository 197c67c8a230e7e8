package smoke

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/itemprobe/packages/datefmt"
	"github.com/abdul-hamid-achik/itemprobe/packages/items"
)

// Variant selects which optional Item fields the payloads carry.
type Variant string

const (
	// VariantBasic sends name and price
	VariantBasic Variant = "basic"
	// VariantVendor adds the vendor
	VariantVendor Variant = "vendor"
	// VariantDated adds the vendor, a date and a millisecond timestamp
	VariantDated Variant = "dated"
)

// Variants lists every variant in increasing field order.
var Variants = []Variant{VariantBasic, VariantVendor, VariantDated}

func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Variants {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q (expected basic, vendor or dated)", s)
}

func (v Variant) HasVendor() bool {
	return v == VariantVendor || v == VariantDated
}

func (v Variant) HasDates() bool {
	return v == VariantDated
}

type seed struct {
	vendor string
	name   string
	price  float64
}

var seeds = map[string]seed{
	keyFirst:   {vendor: "HP", name: "Ноутбук", price: 1567.89},
	keySecond:  {vendor: "ACER", name: "Смартфон", price: 234.56},
	keyThird:   {vendor: "DELL", name: "Смартфон", price: 543.21},
	keyUpdated: {vendor: "Lenovo", name: "Игровой ноутбук", price: 1678.95},
}

// Payload builds a fresh Item for one of the script's slots.
func (v Variant) Payload(key string, now time.Time) items.Item {
	s := seeds[key]
	item := items.Item{Name: s.name, Price: s.price}
	if v.HasVendor() {
		item.Vendor = s.vendor
	}
	if v.HasDates() {
		date := now.UTC()
		item.Date = &date
		item.Timestamp = datefmt.UnixMilli(date)
	}
	return item
}
