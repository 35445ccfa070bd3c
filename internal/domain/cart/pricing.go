package cart

// FreeDeliveryThreshold is the cart total at or above which delivery is free.
const FreeDeliveryThreshold = 1500.0

// Pricing is derived from the cart's lines and coupon at read time. None of
// these values are ever persisted on the cart.
type Pricing struct {
	TotalPrice       float64
	TotalItems       int64
	TotalWeightGrams int64
	DiscountedPrice  float64
	Savings          float64
	DeliveryCharge   float64
	FinalTotal       float64
	FreeDelivery     FreeDeliveryInfo
}

type FreeDeliveryInfo struct {
	IsFree       bool
	Threshold    float64
	AmountNeeded float64
}

// ComputePricing derives all cart totals from the lines and optional coupon.
func ComputePricing(lines []Line, coupon *Coupon) Pricing {
	var p Pricing
	for _, line := range lines {
		p.TotalPrice += line.Price * float64(line.Quantity)
		p.TotalItems += line.Quantity
		p.TotalWeightGrams += line.WeightGrams * line.Quantity
	}

	p.DiscountedPrice = applyCoupon(p.TotalPrice, coupon)
	p.Savings = p.TotalPrice - p.DiscountedPrice
	p.DeliveryCharge = deliveryCharge(p.TotalPrice, p.TotalWeightGrams)
	p.FinalTotal = p.DiscountedPrice + p.DeliveryCharge

	p.FreeDelivery = FreeDeliveryInfo{Threshold: FreeDeliveryThreshold}
	if p.TotalPrice >= FreeDeliveryThreshold {
		p.FreeDelivery.IsFree = true
	} else {
		p.FreeDelivery.AmountNeeded = FreeDeliveryThreshold - p.TotalPrice
	}
	return p
}

// applyCoupon never lets the discount push the payable amount negative.
func applyCoupon(total float64, coupon *Coupon) float64 {
	if coupon == nil || coupon.Discount <= 0 {
		return total
	}
	var discounted float64
	switch coupon.Type {
	case DiscountFixed:
		discounted = total - coupon.Discount
	default:
		discounted = total - total*coupon.Discount/100
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}

// deliveryCharge implements the weight-tiered schedule. Orders at or above
// the free-delivery threshold short-circuit the tiers entirely.
func deliveryCharge(totalPrice float64, weightGrams int64) float64 {
	if totalPrice >= FreeDeliveryThreshold {
		return 0
	}
	switch {
	case weightGrams <= 0:
		return 0
	case weightGrams < 450:
		return 50
	case weightGrams <= 1000:
		return 80
	case weightGrams <= 2000:
		return 120
	default:
		extra := (weightGrams - 2000 + 499) / 500
		return 120 + float64(extra)*40
	}
}
