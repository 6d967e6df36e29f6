package expense

import "github.com/shopspring/decimal"

// DefaultVATRate is the rate assumed when a receipt does not print one
const DefaultVATRate = 21

var hundred = decimal.NewFromInt(100)

// NetFromGross removes VAT at rate percent from gross, rounded to cents.
func NetFromGross(gross decimal.Decimal, rate int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 + rate)).Div(hundred)
	return gross.Div(factor).Round(2)
}

// GrossFromNet adds VAT at rate percent to net, rounded to cents.
func GrossFromNet(net decimal.Decimal, rate int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 + rate)).Div(hundred)
	return net.Mul(factor).Round(2)
}
