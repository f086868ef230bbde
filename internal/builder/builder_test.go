package builder_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

func testConfig() model.BatchConfig {
	return model.BatchConfig{
		Issuer:       "Jana Kováčová",
		DateDelivery: "01.03.2024",
		DateIssue:    "01.03.2024",
		DateDue:      "01.04.2024",
		InvoiceType:  model.InvoiceTypeInvoice,
		Catalog: model.Catalog{
			"item_A": {NameTemplate: "Item A", Unit: "ks", UnitPrice: decimal.RequireFromString("10.00")},
			"item_B": {NameTemplate: "Ubytovanie {i_event}", Unit: "noc", UnitPrice: decimal.RequireFromString("12.50")},
		},
	}
}

func customer(cfg model.BatchConfig, row map[string]string) model.Customer {
	return model.ParseCustomerRow(row, cfg.Catalog)
}

func TestBuild_SingleLine(t *testing.T) {
	cfg := testConfig()
	c := customer(cfg, map[string]string{"o_name": "Jan Novák", "item_A": "2"})

	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	require.Len(t, req.Payload.Lines, 1)
	assert.Equal(t, builder.Line{Text: "Item A", Unit: "ks", Price: "10.00", Quantity: "2"}, req.Payload.Lines[0])
	assert.True(t, req.Total.Equal(decimal.RequireFromString("20.00")), "got %s", req.Total)
	assert.Equal(t, "Item A", req.Subject)

	assert.Equal(t, map[string]string{"d_id": "42"}, req.Payload.Destination)
	assert.Equal(t, map[string]string{"o_name": "Jan Novák"}, req.Payload.Party)
	assert.Equal(t, map[string]string{
		"f_date_issue":    "01.03.2024",
		"f_date_delivery": "01.03.2024",
		"f_date_due":      "01.04.2024",
		"f_issued_by":     "Jana Kováčová",
		"f_type":          "invoice",
	}, req.Payload.Invoice)
}

func TestBuild_ExactDecimal(t *testing.T) {
	cfg := testConfig()
	c := customer(cfg, map[string]string{"o_name": "Eva", "i_event": "Tábor", "item_B": "3"})

	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	assert.Equal(t, "37.50", req.Total.StringFixed(2))
	assert.True(t, req.Total.Equal(decimal.RequireFromString("37.5")))
	assert.Equal(t, "Ubytovanie Tábor", req.Payload.Lines[0].Text)
}

func TestBuild_SubCentPriceSentUnrounded(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog["item_C"] = model.LineItemDefinition{
		NameTemplate: "Kopírovanie",
		Unit:         "strana",
		UnitPrice:    decimal.RequireFromString("0.125"),
	}
	c := customer(cfg, map[string]string{"o_name": "Eva", "item_C": "3"})

	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	require.Len(t, req.Payload.Lines, 1)
	line := req.Payload.Lines[0]
	assert.Equal(t, "0.125", line.Price)

	// the total must match what the service computes from the sent line
	price := decimal.RequireFromString(line.Price)
	quantity := decimal.RequireFromString(line.Quantity)
	assert.True(t, req.Total.Equal(price.Mul(quantity)), "got %s", req.Total)
	assert.True(t, req.Total.Equal(decimal.RequireFromString("0.375")))
}

func TestBuild_ZeroQuantitiesSkipped(t *testing.T) {
	cfg := testConfig()
	c := customer(cfg, map[string]string{"o_name": "Eva", "item_A": "0", "item_B": "0.0"})

	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	assert.Empty(t, req.Payload.Lines)
	assert.True(t, req.Total.IsZero())
	assert.Equal(t, "", req.Subject)
}

func TestBuild_NoLines(t *testing.T) {
	cfg := testConfig()
	req, err := builder.Build(customer(cfg, map[string]string{"o_name": "Eva"}), cfg, "42")
	require.NoError(t, err)
	assert.Empty(t, req.Payload.Lines)
	assert.Equal(t, "", req.Subject)
	assert.True(t, req.Total.Equal(decimal.Zero))
}

func TestBuild_LinesInCodeOrder(t *testing.T) {
	cfg := testConfig()
	c := customer(cfg, map[string]string{"o_name": "Eva", "i_event": "Tábor", "item_B": "1", "item_A": "1"})

	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	require.Len(t, req.Payload.Lines, 2)
	assert.Equal(t, "Item A", req.Payload.Lines[0].Text)
	assert.Equal(t, "Ubytovanie Tábor", req.Payload.Lines[1].Text)
	assert.Equal(t, "Item A", req.Subject)
	assert.Equal(t, "22.50", req.Total.StringFixed(2))
}

func TestBuild_NoteTagsAndOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Note = "Ďakujeme"
	cfg.Tags = []string{"tabor", "2024"}

	c := customer(cfg, map[string]string{"o_name": "Eva", "f_paid": "1", "f_issued_by": "Peter"})
	req, err := builder.Build(c, cfg, "42")
	require.NoError(t, err)

	assert.Equal(t, "Ďakujeme", req.Payload.Invoice["f_note"])
	assert.Equal(t, "2024,tabor", req.Payload.Invoice["f_tags"])
	assert.Equal(t, "1", req.Payload.Invoice["f_paid"])
	assert.Equal(t, "Peter", req.Payload.Invoice["f_issued_by"])

	// customer note wins over the batch note
	c = customer(cfg, map[string]string{"o_name": "Eva", "f_note": "Vlastná"})
	req, err = builder.Build(c, cfg, "42")
	require.NoError(t, err)
	assert.Equal(t, "Vlastná", req.Payload.Invoice["f_note"])
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		row  map[string]string
	}{
		{"invalid quantity", map[string]string{"o_name": "Eva", "item_A": "two"}},
		{"negative quantity", map[string]string{"o_name": "Eva", "item_A": "-1"}},
		{"missing template field", map[string]string{"o_name": "Eva", "item_B": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.Build(customer(cfg, tt.row), cfg, "42")
			require.Error(t, err)

			var berr *model.BuildError
			require.True(t, errors.As(err, &berr))
			assert.Equal(t, "Eva", berr.Customer)
		})
	}
}

func TestBuild_PayloadJSON(t *testing.T) {
	cfg := testConfig()
	req, err := builder.Build(customer(cfg, map[string]string{"o_name": "Jan", "item_A": "1"}), cfg, "7")
	require.NoError(t, err)

	data, err := json.Marshal(req.Payload)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "d")
	assert.Contains(t, raw, "o")
	assert.Contains(t, raw, "f")
	assert.JSONEq(t, `[{"p_text":"Item A","p_unit":"ks","p_price":"10.00","p_quantity":"1"}]`, string(raw["p"]))
}

func TestResolveTemplate(t *testing.T) {
	out, err := builder.ResolveTemplate("Poplatok {i_event} {i_year}", map[string]string{"i_event": "Tábor", "i_year": "2024"})
	require.NoError(t, err)
	assert.Equal(t, "Poplatok Tábor 2024", out)

	out, err = builder.ResolveTemplate("Bez premenných", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bez premenných", out)

	_, err = builder.ResolveTemplate("{i_a} {i_b}", map[string]string{"i_a": "x"})
	var missing *builder.MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"i_b"}, missing.Fields)
}
