package serviceorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[int64]string{
		0:         "R$ 0,00",
		5:         "R$ 0,05",
		1290:      "R$ 12,90",
		20676:     "R$ 206,76",
		100000:    "R$ 1.000,00",
		123456789: "R$ 1.234.567,89",
		-2820:     "-R$ 28,20",
	}
	for cents, want := range cases {
		assert.Equal(t, want, FormatCurrency(cents), "cents=%d", cents)
	}
}

func TestFormatDocument(t *testing.T) {
	tests := []struct {
		name, doc, kind, want string
	}{
		{"cpf", "12345678901", CustomerIndividual, "123.456.789-01"},
		{"cpf with punctuation", "123.456.789-01", CustomerIndividual, "123.456.789-01"},
		{"cnpj", "32311223123221", CustomerCompany, "32.311.223/1232-21"},
		{"missing type uses cnpj", "32311223123221", "", "32.311.223/1232-21"},
		{"missing type leaves cpf digits", "12345678901", "", "12345678901"},
		{"unknown type uses cnpj", "32311223123221", "partner", "32.311.223/1232-21"},
		{"cnpj digits for individual", "32311223123221", CustomerIndividual, "32311223123221"},
		{"short company document", "1234", CustomerCompany, "1234"},
		{"empty", "", CustomerCompany, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDocument(tt.doc, tt.kind))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(23) 91222-3122", FormatPhone("23912223122"))
	assert.Equal(t, "(11) 9999-9999", FormatPhone("1199999999"))
	assert.Equal(t, "(11) 98888-7777", FormatPhone("(11) 98888-7777"))
	assert.Equal(t, "123", FormatPhone("123"))
	assert.Equal(t, "+55 11 98888-7777", FormatPhone("+55 11 98888-7777"))
	assert.Equal(t, "", FormatPhone(""))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(3))
	assert.Equal(t, "1.5", FormatQuantity(1.5))
	assert.Equal(t, "0", FormatQuantity(0))
}

func TestFormatterDates(t *testing.T) {
	f := NewFormatter(time.FixedZone("BRT", -3*60*60))
	ts := sampleTime("2025-12-01T23:23:09.661Z")

	assert.Equal(t, "01/12/2025", f.Date(ts))
	assert.Equal(t, "01/12/2025, 20:23:09", f.DateTime(ts))
	assert.Equal(t, "-", f.Date(Timestamp{}))
	assert.Equal(t, "-", f.DateTime(Timestamp{}))

	utc := NewFormatter(nil)
	assert.Equal(t, "02/12/2025", utc.Date(sampleTime("2025-12-02T01:00:00Z")))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "S", Initial("sua empresa"))
	assert.Equal(t, "É", Initial(" édipo"))
	assert.Equal(t, "?", Initial("  "))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, Badge{"Em Andamento", "bg-blue-100 text-blue-800"}, StatusBadge(StatusInProgress))
	assert.Equal(t, Badge{"archived", "bg-gray-100 text-gray-800"}, StatusBadge("archived"))
	assert.Equal(t, Badge{"Média", "bg-yellow-100 text-yellow-800"}, PriorityBadge(PriorityMedium))
	assert.Equal(t, Badge{"Alta", "bg-orange-100 text-orange-800"}, PriorityBadge(PriorityHigh))
	assert.Equal(t, Badge{"", "bg-gray-100 text-gray-800"}, PriorityBadge(""))
	assert.Equal(t, "Mão de obra", CategoryLabel(CategoryLabor))
	assert.Equal(t, "software", CategoryLabel("software"))
	assert.Equal(t, "Percentual", DiscountTypeLabel(DiscountPercentage))
	assert.Equal(t, "Valor Fixo", DiscountTypeLabel("fixed"))
	assert.Equal(t, "Valor Fixo", DiscountTypeLabel(""))
}
