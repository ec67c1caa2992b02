// Package currency converts and formats INR catalogue prices for the regional storefronts.
package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const Base = "INR"

var ErrInvalidRate = errors.New("exchange rate must be greater than zero")

type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Supported is ordered the way the storefront selector lists currencies.
var Supported = []Info{
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "QAR", Symbol: "ر.ق", Name: "Qatari Riyal"},
	{Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
	{Code: "SAR", Symbol: "ر.س", Name: "Saudi Riyal"},
	{Code: "OMR", Symbol: "ر.ع.", Name: "Omani Rial"},
}

// MockRates is how many INR one unit of each currency buys.
var MockRates = map[string]decimal.Decimal{
	"QAR": decimal.RequireFromString("20.25"),
	"AED": decimal.RequireFromString("22.50"),
	"SAR": decimal.RequireFromString("22.00"),
	"OMR": decimal.RequireFromString("215.00"),
}

var countryCurrency = map[string]string{
	"IN": "INR",
	"QA": "QAR",
	"AE": "AED",
	"SA": "SAR",
	"OM": "OMR",
}

var printer = message.NewPrinter(language.AmericanEnglish)

func Lookup(code string) (Info, bool) {
	for _, c := range Supported {
		if c.Code == code {
			return c, true
		}
	}
	return Info{}, false
}

func IsSupported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Codes returns the supported ISO codes.
func Codes() []string {
	codes := make([]string, len(Supported))
	for i, c := range Supported {
		codes[i] = c.Code
	}
	return codes
}

// CountryCurrency maps a shipping country to its storefront currency, defaulting to INR.
func CountryCurrency(country string) string {
	if c, ok := countryCurrency[strings.ToUpper(country)]; ok {
		return c
	}
	return Base
}

// Convert turns an INR price into target using rateToINR (INR per unit of target).
func Convert(priceINR, rateToINR decimal.Decimal, target string) (decimal.Decimal, error) {
	if target == Base {
		return priceINR, nil
	}
	if !rateToINR.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return priceINR.Div(rateToINR).Round(2), nil
}

// Digits is the number of minor-unit digits shown for code.
func Digits(code string) int {
	if code == "OMR" {
		return 3
	}
	return 2
}

// Format renders price with en-US grouping and the local currency symbol,
// e.g. "₹1,000.00" or "ر.ق 49.38".
func Format(price decimal.Decimal, code string) string {
	info, ok := Lookup(code)
	if !ok {
		info = Info{Code: code, Symbol: code}
	}
	digits := Digits(code)
	sign := ""
	if price.IsNegative() {
		sign = "-"
		price = price.Neg()
	}
	amount := printer.Sprint(number.Decimal(price.Round(int32(digits)).InexactFloat64(), number.Scale(digits)))
	if code == Base {
		return sign + info.Symbol + amount
	}
	return sign + info.Symbol + " " + amount
}
