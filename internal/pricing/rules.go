package pricing

import (
	"gym-backoffice/internal/models"
)

// rule is the shared promo/voucher application view.
type rule struct {
	ruleType     string // percentage | fixed | free_item
	value        float64
	minPurchase  float64
	maxDiscount  *float64
	applicableTo string // all | membership | class | pt | product
	itemIDs      []uint // optional explicit allow-list
}

// bucketOf maps a line's item type onto the applicability buckets discount
// rules are defined against.
func bucketOf(itemType string) string {
	switch itemType {
	case models.ItemProduct, models.ItemRental:
		return "product"
	case models.ItemMembership:
		return "membership"
	case models.ItemPTPackage:
		return "pt"
	case models.ItemClassPass:
		return "class"
	default:
		return ""
	}
}

// applyRule computes a rule's discount against the cart, clamped to the
// remaining running subtotal. Returns 0 when the rule does not apply at all;
// a rule never has a partial effect.
func applyRule(r rule, lines []*CartLine, remaining float64) float64 {
	matched := matchLines(r, lines)
	if len(matched) == 0 && r.applicableTo != "all" {
		return 0
	}

	var applicable float64
	for _, line := range matched {
		applicable += line.Subtotal
	}
	if applicable < r.minPurchase {
		return 0
	}

	var amount float64
	switch r.ruleType {
	case models.DiscountPercentage:
		amount = applicable * (r.value / 100)
		if r.maxDiscount != nil && amount > *r.maxDiscount {
			amount = *r.maxDiscount
		}
	case models.DiscountFixed:
		amount = r.value
		if amount > applicable {
			amount = applicable
		}
	case models.DiscountFreeItem:
		// Worth one unit of the cheapest matched line.
		cheapest := 0.0
		for _, line := range matched {
			if cheapest == 0 || line.Item.Price < cheapest {
				cheapest = line.Item.Price
			}
		}
		amount = cheapest
		if amount > applicable {
			amount = applicable
		}
	default:
		return 0
	}

	if amount > remaining {
		amount = remaining
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

func matchLines(r rule, lines []*CartLine) []*CartLine {
	var matched []*CartLine
	for _, line := range lines {
		if r.applicableTo != "all" && bucketOf(line.Item.Type) != r.applicableTo {
			continue
		}
		if len(r.itemIDs) > 0 && !containsID(r.itemIDs, line.Item.ID) {
			continue
		}
		matched = append(matched, line)
	}
	return matched
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
