package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	leadsdomain "lead-intake-go/internal/domain/leads"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(leadsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateContact(ctx context.Context, contact *leadsdomain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *PostgresRepository) CreateRequest(ctx context.Context, request *leadsdomain.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) GetRequestForUpdate(ctx context.Context, requestID uint64) (*leadsdomain.Request, error) {
	var request leadsdomain.Request
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leadsdomain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) GetContactForUpdate(ctx context.Context, contactID uint64) (*leadsdomain.Contact, error) {
	var contact leadsdomain.Contact
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", contactID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leadsdomain.ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *PostgresRepository) UpdateContact(ctx context.Context, contactID uint64, patch leadsdomain.ContactPatch) error {
	updates := map[string]interface{}{}
	if patch.FullName.Set {
		updates["full_name"] = patch.FullName.Value
	}
	if patch.Company.Set {
		updates["company"] = patch.Company.Value
	}
	if patch.Email.Set {
		updates["email"] = patch.Email.Value
	}
	if patch.Phone.Set {
		updates["phone"] = patch.Phone.Value
	}
	if patch.WebOrSocial.Set {
		updates["web_or_social"] = patch.WebOrSocial.Value
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&leadsdomain.Contact{}).
		Where("id = ?", contactID).
		Updates(updates).Error
}

func (r *PostgresRepository) UpdateRequest(ctx context.Context, requestID uint64, update leadsdomain.RequestUpdate) error {
	updates := map[string]interface{}{}
	if update.BusinessType.Set {
		updates["business_type"] = update.BusinessType.Value
	}
	if update.MainProduct.Set {
		updates["main_product"] = update.MainProduct.Value
	}
	if update.TargetAudience.Set {
		updates["target_audience"] = update.TargetAudience.Value
	}
	if update.Differentiator.Set {
		updates["differentiator"] = update.Differentiator.Value
	}
	if update.BudgetRange.Set {
		updates["budget_range"] = update.BudgetRange.Value
		updates["budget"] = update.Budget
	}
	if update.Deadline.Set {
		updates["deadline"] = update.Deadline.Value
	}
	if update.Comments.Set {
		updates["comments"] = update.Comments.Value
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&leadsdomain.Request{}).
		Where("id = ?", requestID).
		Updates(updates).Error
}

func (r *PostgresRepository) DeleteRequest(ctx context.Context, requestID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&leadsdomain.Request{}, "id = ?", requestID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountRequestsByContact(ctx context.Context, contactID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&leadsdomain.Request{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) DeleteContact(ctx context.Context, contactID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&leadsdomain.Contact{}, "id = ?", contactID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetLead(ctx context.Context, requestID uint64) (*leadsdomain.Lead, error) {
	var row leadRow
	result := r.leadQuery(ctx).
		Select(leadColumns).
		Where("project_requests.id = ?", requestID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, leadsdomain.ErrRequestNotFound
	}

	lead := row.toLead()
	return &lead, nil
}

func (r *PostgresRepository) ListLeads(ctx context.Context, filter leadsdomain.ListFilter) ([]leadsdomain.Lead, int64, error) {
	query := r.leadQuery(ctx)
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(
			"(contacts.full_name ILIKE ? OR contacts.email ILIKE ? OR contacts.phone ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("project_requests.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("project_requests.created_at DESC, project_requests.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []leadRow
	if err := query.Select(leadColumns).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]leadsdomain.Lead, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toLead())
	}
	return items, total, nil
}

func (r *PostgresRepository) leadQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("project_requests").
		Joins("LEFT JOIN contacts ON contacts.id = project_requests.contact_id")
}

const leadColumns = `project_requests.id, project_requests.contact_id, project_requests.business_type,
	project_requests.main_product, project_requests.target_audience, project_requests.differentiator,
	project_requests.budget_range, project_requests.budget, project_requests.deadline,
	project_requests.comments, project_requests.created_at,
	contacts.id AS contact_row_id, contacts.full_name AS contact_full_name, contacts.company AS contact_company,
	contacts.email AS contact_email, contacts.phone AS contact_phone,
	contacts.web_or_social AS contact_web_or_social, contacts.created_at AS contact_created_at`

type leadRow struct {
	ID             uint64              `gorm:"column:id"`
	ContactID      uint64              `gorm:"column:contact_id"`
	BusinessType   *string             `gorm:"column:business_type"`
	MainProduct    string              `gorm:"column:main_product"`
	TargetAudience *string             `gorm:"column:target_audience"`
	Differentiator *string             `gorm:"column:differentiator"`
	BudgetRange    *string             `gorm:"column:budget_range"`
	Budget         decimal.NullDecimal `gorm:"column:budget"`
	Deadline       *time.Time          `gorm:"column:deadline"`
	Comments       *string             `gorm:"column:comments"`
	CreatedAt      time.Time           `gorm:"column:created_at"`

	ContactRowID       *uint64    `gorm:"column:contact_row_id"`
	ContactFullName    *string    `gorm:"column:contact_full_name"`
	ContactCompany     *string    `gorm:"column:contact_company"`
	ContactEmail       *string    `gorm:"column:contact_email"`
	ContactPhone       *string    `gorm:"column:contact_phone"`
	ContactWebOrSocial *string    `gorm:"column:contact_web_or_social"`
	ContactCreatedAt   *time.Time `gorm:"column:contact_created_at"`
}

func (row leadRow) toLead() leadsdomain.Lead {
	lead := leadsdomain.Lead{
		Request: leadsdomain.Request{
			ID:             row.ID,
			ContactID:      row.ContactID,
			BusinessType:   row.BusinessType,
			MainProduct:    row.MainProduct,
			TargetAudience: row.TargetAudience,
			Differentiator: row.Differentiator,
			BudgetRange:    row.BudgetRange,
			Budget:         row.Budget,
			Deadline:       row.Deadline,
			Comments:       row.Comments,
			CreatedAt:      row.CreatedAt,
		},
	}
	if row.ContactRowID == nil {
		return lead
	}

	contact := &leadsdomain.Contact{
		ID:          *row.ContactRowID,
		Company:     row.ContactCompany,
		Phone:       row.ContactPhone,
		WebOrSocial: row.ContactWebOrSocial,
	}
	if row.ContactFullName != nil {
		contact.FullName = *row.ContactFullName
	}
	if row.ContactEmail != nil {
		contact.Email = *row.ContactEmail
	}
	if row.ContactCreatedAt != nil {
		contact.CreatedAt = *row.ContactCreatedAt
	}
	lead.Contact = contact
	return lead
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
