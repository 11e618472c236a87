package serviceorder

import (
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006, 15:04:05"
	missingDate    = "-"
)

var (
	nonDigits    = regexp.MustCompile(`\D`)
	phonePattern = regexp.MustCompile(`^(\d{2})(\d{4,5})(\d{4})$`)
)

// FormatCurrency renders minor units as Brazilian reais: 123456789 becomes
// "R$ 1.234.567,89".
func FormatCurrency(cents int64) string {
	amount := decimal.New(cents, -2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	intPart, fracPart, _ := strings.Cut(amount.StringFixed(2), ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("R$ ")
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatDocument masks a CPF for individuals with 11 digits. Every other
// customer type is masked as a CNPJ when it has 14 digits. Anything else
// comes back unchanged.
func FormatDocument(doc, customerType string) string {
	if doc == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(doc, "")
	if customerType == CustomerIndividual {
		if len(digits) == 11 {
			return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
		}
		return doc
	}
	if len(digits) == 14 {
		return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
	}
	return doc
}

// FormatPhone renders a Brazilian number with area code as "(AA) NNNNN-NNNN"
// or "(AA) NNNN-NNNN". Other inputs come back unchanged.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	m := phonePattern.FindStringSubmatch(nonDigits.ReplaceAllString(phone, ""))
	if m == nil {
		return phone
	}
	return "(" + m[1] + ") " + m[2] + "-" + m[3]
}

// FormatQuantity prints the shortest representation: 3, 1.5.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Initial is the upper-cased first letter of name, used by the logo
// placeholder.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	// A Caser keeps state and cannot be shared.
	return cases.Upper(language.BrazilianPortuguese).String(string([]rune(name)[:1]))
}

// Formatter renders dates in a fixed time zone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter uses loc, or UTC when loc is nil.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Date renders dd/mm/yyyy, or "-" when absent.
func (f *Formatter) Date(t Timestamp) string {
	if !t.Present() {
		return missingDate
	}
	return t.In(f.loc).Format(dateLayout)
}

// DateTime renders dd/mm/yyyy, HH:MM:SS, or "-" when absent.
func (f *Formatter) DateTime(t Timestamp) string {
	if !t.Present() {
		return missingDate
	}
	return t.In(f.loc).Format(dateTimeLayout)
}

// Funcs exposes the formatters to templates.
func (f *Formatter) Funcs() template.FuncMap {
	return template.FuncMap{
		"currency": FormatCurrency,
		"quantity": FormatQuantity,
		"date":     f.Date,
		"datetime": f.DateTime,
		"initial":  Initial,
		"inc":      func(i int) int { return i + 1 },
	}
}
