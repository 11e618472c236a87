package serviceorder

import (
	"regexp"

	"github.com/odyssey-erp/serviceorder/internal/pdf"
)

const (
	summaryMinCategories = 3

	placeholderCustomerName  = "Nome do Cliente"
	placeholderCustomerEmail = "email@cliente.com"
	placeholderDescription   = "Descrição do Item"

	metaDefaultCompany  = "Sua Empresa Ltda"
	metaDefaultCustomer = "N/A"
)

var unsafeFilenameChars = regexp.MustCompile(`[/\\?%*:|"<>]`)

// Document is an order with every value the template prints resolved.
type Document struct {
	// PageTitle fills the <title> element. Set by the caller.
	PageTitle string

	ID            string
	Number        string
	Title         string
	Status        Badge
	Priority      Badge
	CreatedAt     Timestamp
	UpdatedAt     Timestamp
	ShowUpdatedAt bool

	Schedule Schedule
	// ShowSchedule is set by the Service when the schedule block is enabled
	// and at least one date is present.
	ShowSchedule bool

	Organization Organization
	Customer     CustomerBlock

	ItemsHeading string
	Items        []ItemRow

	ShowCategories bool
	Categories     []CategoryRow

	SubTotal      int64
	Discount      int64
	DiscountLabel string
	GrandTotal    int64

	Notes         string
	Description   string
	EstimatedCost int64
}

// Schedule holds the optional service dates.
type Schedule struct {
	Start               Timestamp
	End                 Timestamp
	EstimatedCompletion Timestamp
}

// Present reports whether any date is set.
func (s Schedule) Present() bool {
	return s.Start.Present() || s.End.Present() || s.EstimatedCompletion.Present()
}

// CustomerBlock is the customer as printed.
type CustomerBlock struct {
	Name          string
	Email         string
	TypeLabel     string
	Phone         string
	DocumentLabel string
	Document      string
	Address       string
}

// ItemRow is one printed line of the items table.
type ItemRow struct {
	Description string
	Category    string
	Quantity    float64
	Price       int64
	Total       int64
}

// CategoryRow is one line of the category summary.
type CategoryRow struct {
	Label string
	Total int64
}

// Normalize resolves defaults and derived values once so that the template
// never deals with missing data. A nil customer or organization and nil
// items are valid input.
func Normalize(order Order, customer *Customer, items []LineItem, org *Organization) Document {
	doc := Document{
		ID:            order.ID,
		Number:        order.DisplayNumber(),
		Title:         order.Title,
		Status:        StatusBadge(order.Status),
		Priority:      PriorityBadge(order.Priority),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		ShowUpdatedAt: order.UpdatedAt.Present() && !order.UpdatedAt.Same(order.CreatedAt),
		Schedule: Schedule{
			Start:               order.StartDate,
			End:                 order.EndDate,
			EstimatedCompletion: order.EstimatedCompletion,
		},
		Organization:  resolveOrganization(org),
		Customer:      customerBlock(customer),
		ItemsHeading:  itemsHeading(len(items)),
		Items:         make([]ItemRow, 0, len(items)),
		SubTotal:      order.SubTotal,
		Discount:      order.Discount,
		DiscountLabel: DiscountTypeLabel(order.DiscountType),
		GrandTotal:    order.GrandTotal(),
		Notes:         order.Notes,
		Description:   order.Description,
		EstimatedCost: order.Cost,
	}

	for _, item := range items {
		description := item.Description
		if description == "" {
			description = placeholderDescription
		}
		doc.Items = append(doc.Items, ItemRow{
			Description: description,
			Category:    CategoryLabel(item.Category),
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}

	if distinctCategories(items) >= summaryMinCategories {
		doc.ShowCategories = true
		doc.Categories = categoryTotals(items)
	}
	return doc
}

// Document normalizes the request.
func (r *Request) Document() Document {
	return Normalize(r.Order, r.Customer, r.Items, r.Organization)
}

// Metadata builds the converter envelope. Company and customer fall back to
// placeholders rather than the default issuer record.
func (r *Request) Metadata(f *Formatter) pdf.Metadata {
	meta := pdf.Metadata{
		Number:   r.DisplayNumber(),
		Date:     f.Date(r.CreatedAt),
		Company:  metaDefaultCompany,
		Customer: metaDefaultCustomer,
	}
	if r.Organization != nil && r.Organization.Name != "" {
		meta.Company = r.Organization.Name
	}
	if r.Customer != nil && r.Customer.Name != "" {
		meta.Customer = r.Customer.Name
	}
	return meta
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

func resolveOrganization(org *Organization) Organization {
	if org == nil || org.Name == "" {
		return DefaultOrganization()
	}
	return *org
}

func customerBlock(c *Customer) CustomerBlock {
	if c == nil {
		c = &Customer{}
	}
	block := CustomerBlock{
		Name:          c.Name,
		Email:         c.Email,
		TypeLabel:     "Pessoa Física",
		Phone:         FormatPhone(c.Phone),
		DocumentLabel: "CPF: ",
	}
	if block.Name == "" {
		block.Name = placeholderCustomerName
	}
	if block.Email == "" {
		block.Email = placeholderCustomerEmail
	}
	if c.IsCompany() {
		block.TypeLabel = "Pessoa Jurídica"
		block.DocumentLabel = "CNPJ: "
	}
	if c.Document != "" {
		block.Document = FormatDocument(c.Document, c.Type)
	}
	if c.Address.Get("street") != "" {
		block.Address = c.Address.Format()
	}
	return block
}

func itemsHeading(n int) string {
	if n > 1 {
		return "Itens da Ordem de Serviço"
	}
	return "Item da Ordem de Serviço"
}

func distinctCategories(items []LineItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Category] = struct{}{}
	}
	return len(seen)
}

func categoryTotals(items []LineItem) []CategoryRow {
	sums := make(map[string]int64, len(summaryCategories))
	for _, item := range items {
		sums[item.Category] += item.Total
	}
	rows := make([]CategoryRow, 0, len(summaryCategories))
	for _, category := range summaryCategories {
		if total := sums[category]; total > 0 {
			rows = append(rows, CategoryRow{Label: CategoryLabel(category), Total: total})
		}
	}
	return rows
}
