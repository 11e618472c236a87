// Package serviceorder turns service order payloads into printable documents.
package serviceorder

import (
	"encoding/json"
	"strconv"
)

// Status values known to the renderer. Other codes pass through untranslated.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priority values known to the renderer.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Item categories, in the order the category summary lists them.
const (
	CategoryService   = "service"
	CategoryMaterial  = "material"
	CategoryEquipment = "equipment"
	CategoryLabor     = "labor"
)

// Customer types.
const (
	CustomerIndividual = "individual"
	CustomerCompany    = "company"
)

// DiscountPercentage marks a percentage discount; anything else is fixed.
const DiscountPercentage = "percentage"

// Order is a service order. Money fields are minor units (centavos).
type Order struct {
	ID                  string    `json:"id"`
	SID                 int64     `json:"sid"`
	Number              string    `json:"number"`
	Status              string    `json:"status"`
	Priority            string    `json:"priority"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Notes               string    `json:"notes"`
	Category            string    `json:"category"`
	Cost                int64     `json:"cost" validate:"min=0"`
	SubTotal            int64     `json:"sub_total" validate:"min=0"`
	Discount            int64     `json:"discount" validate:"min=0"`
	Total               int64     `json:"total" validate:"min=0"`
	DiscountType        string    `json:"discount_type"`
	DiscountValue       float64   `json:"discount_value"`
	EstimatedCost       int64     `json:"estimated_cost" validate:"min=0"`
	EstimatedCompletion Timestamp `json:"estimated_completion"`
	StartDate           Timestamp `json:"start_date"`
	EndDate             Timestamp `json:"end_date"`
	CreatedAt           Timestamp `json:"created_at"`
	UpdatedAt           Timestamp `json:"updated_at"`
}

// DisplayNumber is the number printed on the document: Number, else SID,
// else ID.
func (o Order) DisplayNumber() string {
	switch {
	case o.Number != "":
		return o.Number
	case o.SID != 0:
		return strconv.FormatInt(o.SID, 10)
	default:
		return o.ID
	}
}

// GrandTotal is Total, or SubTotal minus Discount when no total was supplied.
func (o Order) GrandTotal() int64 {
	if o.Total != 0 {
		return o.Total
	}
	return o.SubTotal - o.Discount
}

// Customer is the party the order is issued to.
type Customer struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Document string  `json:"document"`
	Type     string  `json:"type"`
	Address  Address `json:"address"`
}

// IsCompany reports whether the customer is a legal entity.
func (c Customer) IsCompany() bool {
	return c.Type == CustomerCompany
}

// LineItem is one row of the order.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"min=0"`
	Price       int64   `json:"price" validate:"min=0"`
	Total       int64   `json:"total" validate:"min=0"`
	Category    string  `json:"category"`
}

// OrganizationAddress is the issuer's postal address.
type OrganizationAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// Organization is the issuer printed in the document header.
type Organization struct {
	Name     string              `json:"name"`
	Address  OrganizationAddress `json:"address"`
	Phone    string              `json:"phone"`
	Email    string              `json:"email"`
	Document string              `json:"document"`
	LogoURL  string              `json:"logoUrl"`
}

// UnmarshalJSON accepts the nome, cnpj and logo_url aliases. The primary key
// wins when both are present.
func (o *Organization) UnmarshalJSON(data []byte) error {
	type plain Organization
	var aux struct {
		plain
		Nome    string `json:"nome"`
		CNPJ    string `json:"cnpj"`
		LogoURL string `json:"logo_url"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = Organization(aux.plain)
	if o.Name == "" {
		o.Name = aux.Nome
	}
	if o.Document == "" {
		o.Document = aux.CNPJ
	}
	if o.LogoURL == "" {
		o.LogoURL = aux.LogoURL
	}
	return nil
}

// DefaultOrganization is printed when the payload names no issuer.
func DefaultOrganization() Organization {
	return Organization{
		Name: "SUA EMPRESA LTDA.",
		Address: OrganizationAddress{
			Street:  "RUA DAS EMPRESAS, 123",
			City:    "SÃO PAULO",
			State:   "SP",
			Zipcode: "01000-000",
		},
		Phone:    "(11) 9999-9999",
		Document: "12.345.678/0001-99",
		Email:    "CONTATO@SUAEMPRESA.COM.BR",
	}
}

// Request is the body of a PDF generation request: the order fields at the
// top level plus its customer, items and organization.
type Request struct {
	Order
	Customer     *Customer     `json:"customer"`
	Items        []LineItem    `json:"items" validate:"dive"`
	Organization *Organization `json:"organization"`
}
