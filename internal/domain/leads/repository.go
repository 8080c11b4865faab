package leads

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateContact(ctx context.Context, contact *Contact) error
	CreateRequest(ctx context.Context, request *Request) error
	// GetRequestForUpdate and GetContactForUpdate lock the row for the rest of
	// the enclosing transaction.
	GetRequestForUpdate(ctx context.Context, requestID uint64) (*Request, error)
	GetContactForUpdate(ctx context.Context, contactID uint64) (*Contact, error)
	UpdateContact(ctx context.Context, contactID uint64, patch ContactPatch) error
	UpdateRequest(ctx context.Context, requestID uint64, update RequestUpdate) error
	DeleteRequest(ctx context.Context, requestID uint64) (bool, error)
	CountRequestsByContact(ctx context.Context, contactID uint64) (int64, error)
	DeleteContact(ctx context.Context, contactID uint64) (bool, error)
	// GetLead and ListLeads return the same merged shape; Contact is nil when
	// the contact row is missing.
	GetLead(ctx context.Context, requestID uint64) (*Lead, error)
	ListLeads(ctx context.Context, filter ListFilter) ([]Lead, int64, error)
}
