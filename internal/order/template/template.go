// Package template renders notification bodies by token substitution.
// Rendering is pure text work; template selection and fetching live with
// the caller.
package template

import (
	"regexp"
	"strings"
)

// Item is one purchased link entry for the {{items_list}} repeater.
type Item struct {
	Name     string
	MainURL  string
	DriveURL string
	// Fragment overrides the card markup for this item.
	Fragment string
}

// Data carries every value a template may reference.
type Data struct {
	ProductName   string
	ProductCode   string
	TransactionID string
	BuyerEmail    string
	CategoryName  string

	// Fields holds credential values keyed by the configured field
	// name, substituted as {<name>}.
	Fields map[string]string

	Items []Item
}

// Render substitutes every known token in body. Tokens match
// case-insensitively and globally; blank or missing values render as "-".
func Render(body string, data Data) string {
	out := body

	if strings.Contains(strings.ToLower(out), "{{items_list}}") {
		out = replaceToken(out, "{{items_list}}", renderItems(data.Items))
	}

	out = replaceToken(out, "{Nama Produk}", data.ProductName)
	out = replaceToken(out, "{Transaction ID}", data.TransactionID)
	out = replaceToken(out, "{Email Pembeli}", data.BuyerEmail)

	out = replaceToken(out, "{{product_name}}", data.ProductName)
	out = replaceToken(out, "{{product_code}}", data.ProductCode)
	out = replaceToken(out, "{{transaction_id}}", data.TransactionID)
	out = replaceToken(out, "{{buyer_email}}", data.BuyerEmail)
	out = replaceToken(out, "{{category_name}}", data.CategoryName)

	for name, value := range data.Fields {
		out = replaceToken(out, "{"+name+"}", value)
	}

	return out
}

func renderItems(items []Item) string {
	var sb strings.Builder
	for _, item := range items {
		fragment := item.Fragment
		if strings.TrimSpace(fragment) == "" {
			fragment = DefaultItemCard
		}
		card := replaceToken(fragment, "{{item_name}}", item.Name)
		card = replaceToken(card, "{{item_url}}", item.MainURL)
		card = replaceToken(card, "{{drive_url}}", item.DriveURL)
		sb.WriteString(card)
	}
	return sb.String()
}

// replaceToken swaps every case-insensitive occurrence of token for
// value. Token text is quoted so field names with regexp metacharacters
// (for example "Exp.Date") match literally.
func replaceToken(body, token, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(token))
	return pattern.ReplaceAllLiteralString(body, value)
}
