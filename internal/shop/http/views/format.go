// Package views renders the storefront pages. Components are written in
// the .templ files; the _templ.go files are generated from them.
package views

//go:generate templ generate

import "github.com/shopspring/decimal"

// Money formats an amount the way prices are shown, e.g. $1.99.
func Money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }
