package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateLead stores a new contact and its first request in one transaction.
func (s *Service) CreateLead(ctx context.Context, input CreateInput) (CreateResult, error) {
	if err := validateCreate(input); err != nil {
		return CreateResult{}, err
	}

	contact := Contact{
		FullName:    input.FullName,
		Company:     input.Company,
		Email:       input.Email,
		Phone:       input.Phone,
		WebOrSocial: input.WebOrSocial,
	}
	request := Request{
		BusinessType:   input.BusinessType,
		MainProduct:    input.MainProduct,
		TargetAudience: input.TargetAudience,
		Differentiator: input.Differentiator,
		BudgetRange:    input.BudgetRange,
		Budget:         parseBudgetPtr(input.BudgetRange),
		Deadline:       input.Deadline,
		Comments:       input.Comments,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateContact(ctx, &contact); err != nil {
			return fmt.Errorf("create contact: %w", err)
		}

		request.ContactID = contact.ID
		if err := tx.CreateRequest(ctx, &request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return CreateResult{}, storageError("create lead", err)
	}

	return CreateResult{RequestID: request.ID, ContactID: contact.ID}, nil
}

// UpdateLead applies a sparse patch to a request and its contact in one
// transaction. A new budget range also replaces the derived budget.
func (s *Service) UpdateLead(ctx context.Context, requestID uint64, patch Patch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	update := RequestUpdate{RequestPatch: patch.Request}
	if patch.Request.BudgetRange.Set {
		update.Budget = parseBudgetPtr(patch.Request.BudgetRange.Value)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		request, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if _, err := tx.GetContactForUpdate(ctx, request.ContactID); err != nil {
			if errors.Is(err, ErrContactNotFound) {
				return fmt.Errorf("%w: request %d references missing contact %d", ErrIntegrity, request.ID, request.ContactID)
			}
			return err
		}

		if !patch.Contact.IsEmpty() {
			if err := tx.UpdateContact(ctx, request.ContactID, patch.Contact); err != nil {
				return fmt.Errorf("update contact: %w", err)
			}
		}
		if !patch.Request.IsEmpty() {
			if err := tx.UpdateRequest(ctx, request.ID, update); err != nil {
				return fmt.Errorf("update request: %w", err)
			}
		}
		return nil
	})

	return storageError("update lead", err)
}

// DeleteLead removes a request and, when it was the contact's last one, the
// contact too. The contact row is locked first so concurrent deletes of
// sibling requests cannot both miss the orphan.
func (s *Service) DeleteLead(ctx context.Context, requestID uint64) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		request, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		contactID := request.ContactID
		if _, err := tx.GetContactForUpdate(ctx, contactID); err != nil && !errors.Is(err, ErrContactNotFound) {
			return err
		}

		deleted, err := tx.DeleteRequest(ctx, request.ID)
		if err != nil {
			return fmt.Errorf("delete request: %w", err)
		}
		if !deleted {
			return ErrRequestNotFound
		}

		remaining, err := tx.CountRequestsByContact(ctx, contactID)
		if err != nil {
			return fmt.Errorf("count remaining requests: %w", err)
		}
		if remaining > 0 {
			return nil
		}

		if _, err := tx.DeleteContact(ctx, contactID); err != nil {
			return fmt.Errorf("delete contact: %w", err)
		}
		return nil
	})

	return storageError("delete lead", err)
}

// GetLead returns the request with its contact. A missing contact is reported
// as not found; the wrapped ErrContactNotFound tells it apart in logs.
func (s *Service) GetLead(ctx context.Context, requestID uint64) (*Lead, error) {
	lead, err := s.repo.GetLead(ctx, requestID)
	if err != nil {
		return nil, storageError("get lead", err)
	}
	if lead.Contact == nil {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrContactNotFound)
	}
	return lead, nil
}

func (s *Service) ListLeads(ctx context.Context, query ListQuery) (Page, error) {
	page, pageSize := normalizePaging(query.Page, query.PageSize)

	leads, total, err := s.repo.ListLeads(ctx, ListFilter{
		Search: strings.TrimSpace(query.Search),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return Page{}, storageError("list leads", err)
	}

	items := make([]ListItem, 0, len(leads))
	for _, lead := range leads {
		items = append(items, flatten(lead))
	}

	return Page{
		TotalItems:  total,
		TotalPages:  totalPages(total, pageSize),
		CurrentPage: page,
		Items:       items,
	}, nil
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

func flatten(lead Lead) ListItem {
	item := ListItem{
		RequestID:      lead.ID,
		ContactID:      lead.ContactID,
		FullName:       MissingContactName,
		BusinessType:   lead.BusinessType,
		MainProduct:    lead.MainProduct,
		TargetAudience: lead.TargetAudience,
		Differentiator: lead.Differentiator,
		BudgetRange:    lead.BudgetRange,
		Budget:         lead.Budget,
		Deadline:       lead.Deadline,
		Comments:       lead.Comments,
		CreatedAt:      lead.CreatedAt,
	}
	if lead.Contact != nil {
		item.FullName = lead.Contact.FullName
		item.Company = deref(lead.Contact.Company)
		item.Email = lead.Contact.Email
		item.Phone = deref(lead.Contact.Phone)
		item.WebOrSocial = deref(lead.Contact.WebOrSocial)
	}
	return item
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return &ValidationError{Field: "full_name", Message: requiredFieldsMessage}
	}
	if strings.TrimSpace(input.Email) == "" {
		return &ValidationError{Field: "email", Message: requiredFieldsMessage}
	}
	if strings.TrimSpace(input.MainProduct) == "" {
		return &ValidationError{Field: "main_product", Message: requiredFieldsMessage}
	}
	return nil
}

func validatePatch(patch Patch) error {
	if patch.Contact.FullName.Set && strings.TrimSpace(patch.Contact.FullName.Value) == "" {
		return &ValidationError{Field: "full_name", Message: "full name cannot be empty"}
	}
	if patch.Contact.Email.Set && strings.TrimSpace(patch.Contact.Email.Value) == "" {
		return &ValidationError{Field: "email", Message: "email cannot be empty"}
	}
	if patch.Request.MainProduct.Set && strings.TrimSpace(patch.Request.MainProduct.Value) == "" {
		return &ValidationError{Field: "main_product", Message: "main product cannot be empty"}
	}
	return nil
}

const requiredFieldsMessage = "full name, email and main product are required"

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
