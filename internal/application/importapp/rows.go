package importapp

import (
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/infrastructure/tabular"
	"github.com/shopspring/decimal"
)

// Column headers of the exchanged roster files. They match the export
// layouts so an exported file can be re-imported unchanged.
var (
	ClientColumns = []string{"Name", "Address", "Mobile", "Email", "Alt Mobile"}
	ItemColumns   = []string{"Description", "HSN Code", "Unit", "Last Rate"}
)

// ClientRow is one uploaded client roster row
type ClientRow struct {
	Name      string
	Address   string
	Mobile    string
	Email     string
	AltMobile string
}

// ItemRow is one uploaded catalog row
type ItemRow struct {
	Description string
	HSNCode     string
	Unit        string
	LastRate    decimal.Decimal
}

// ClientRowsFromTable maps parsed CSV rows onto client rows by header name.
func ClientRowsFromTable(rows []tabular.Row) []ClientRow {
	out := make([]ClientRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ClientRow{
			Name:      row.Get("Name"),
			Address:   row.Get("Address"),
			Mobile:    row.Get("Mobile"),
			Email:     row.Get("Email"),
			AltMobile: row.Get("Alt Mobile"),
		})
	}
	return out
}

// ItemRowsFromTable maps parsed CSV rows onto catalog rows. A Last Rate
// value that does not parse as a number is coerced to 0, not rejected.
func ItemRowsFromTable(rows []tabular.Row) []ItemRow {
	out := make([]ItemRow, 0, len(rows))
	for _, row := range rows {
		rate, err := decimal.NewFromString(row.Get("Last Rate"))
		if err != nil {
			rate = decimal.Zero
		}
		out = append(out, ItemRow{
			Description: row.Get("Description"),
			HSNCode:     row.Get("HSN Code"),
			Unit:        row.GetOrDefault("Unit", billing.DefaultUnit),
			LastRate:    rate,
		})
	}
	return out
}
