package leads

import (
	"time"

	"github.com/shopspring/decimal"
)

// MissingContactName stands in for the contact name of a listed request whose
// contact row is gone.
const MissingContactName = "Sin cliente"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Contact struct {
	ID          uint64    `gorm:"primaryKey"`
	FullName    string    `gorm:"not null"`
	Company     *string   `gorm:"type:text"`
	Email       string    `gorm:"not null"`
	Phone       *string   `gorm:"type:text"`
	WebOrSocial *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Request is one project submission. Budget is always derived from
// BudgetRange and never written independently.
type Request struct {
	ID             uint64              `gorm:"primaryKey"`
	ContactID      uint64              `gorm:"index;not null"`
	BusinessType   *string             `gorm:"type:text"`
	MainProduct    string              `gorm:"not null"`
	TargetAudience *string             `gorm:"type:text"`
	Differentiator *string             `gorm:"type:text"`
	BudgetRange    *string             `gorm:"type:text"`
	Budget         decimal.NullDecimal `gorm:"type:numeric"`
	Deadline       *time.Time
	Comments       *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Request) TableName() string {
	return "project_requests"
}

// Lead is a request merged with its owning contact. Contact is nil when the
// contact row is missing.
type Lead struct {
	Request
	Contact *Contact
}

// ListItem is the flattened row returned by listings.
type ListItem struct {
	RequestID      uint64
	ContactID      uint64
	FullName       string
	Company        string
	Email          string
	Phone          string
	WebOrSocial    string
	BusinessType   *string
	MainProduct    string
	TargetAudience *string
	Differentiator *string
	BudgetRange    *string
	Budget         decimal.NullDecimal
	Deadline       *time.Time
	Comments       *string
	CreatedAt      time.Time
}

type CreateInput struct {
	FullName    string
	Company     *string
	Email       string
	Phone       *string
	WebOrSocial *string

	BusinessType   *string
	MainProduct    string
	TargetAudience *string
	Differentiator *string
	BudgetRange    *string
	Deadline       *time.Time
	Comments       *string
}

type CreateResult struct {
	RequestID uint64
	ContactID uint64
}

// OptionalString patches a required text field; it can be replaced but not cleared.
type OptionalString struct {
	Set   bool
	Value string
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

type OptionalNullableTime struct {
	Set   bool
	Value *time.Time
}

type ContactPatch struct {
	FullName    OptionalString
	Company     OptionalNullableString
	Email       OptionalString
	Phone       OptionalNullableString
	WebOrSocial OptionalNullableString
}

func (p ContactPatch) IsEmpty() bool {
	return !p.FullName.Set && !p.Company.Set && !p.Email.Set && !p.Phone.Set && !p.WebOrSocial.Set
}

type RequestPatch struct {
	BusinessType   OptionalNullableString
	MainProduct    OptionalString
	TargetAudience OptionalNullableString
	Differentiator OptionalNullableString
	BudgetRange    OptionalNullableString
	Deadline       OptionalNullableTime
	Comments       OptionalNullableString
}

func (p RequestPatch) IsEmpty() bool {
	return !p.BusinessType.Set && !p.MainProduct.Set && !p.TargetAudience.Set && !p.Differentiator.Set &&
		!p.BudgetRange.Set && !p.Deadline.Set && !p.Comments.Set
}

// Patch is a sparse edit of a lead. Every field belongs statically to either
// the contact or the request.
type Patch struct {
	Contact ContactPatch
	Request RequestPatch
}

// RequestUpdate is a RequestPatch plus the derived budget, recomputed when the
// patch carries a budget range.
type RequestUpdate struct {
	RequestPatch
	Budget decimal.NullDecimal
}

type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

type Page struct {
	TotalItems  int64
	TotalPages  int
	CurrentPage int
	Items       []ListItem
}
