package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	leadsdomain "lead-intake-go/internal/domain/leads"
)

type createLeadRequest struct {
	FullName       string  `json:"nombre_completo"`
	Company        *string `json:"empresa"`
	Email          string  `json:"correo"`
	Phone          *string `json:"telefono"`
	WebOrSocial    *string `json:"sitio_web_o_redes"`
	BusinessType   *string `json:"tipo_negocio"`
	MainProduct    string  `json:"producto_principal"`
	TargetAudience *string `json:"publico_objetivo"`
	Differentiator *string `json:"diferencial"`
	BudgetRange    *string `json:"rango_presupuesto"`
	Deadline       *string `json:"fecha_limite"`
	Comments       *string `json:"comentarios"`
}

type updateLeadRequest struct {
	FullName       optional[string] `json:"nombre_completo"`
	Company        optional[string] `json:"empresa"`
	Email          optional[string] `json:"correo"`
	Phone          optional[string] `json:"telefono"`
	WebOrSocial    optional[string] `json:"sitio_web_o_redes"`
	BusinessType   optional[string] `json:"tipo_negocio"`
	MainProduct    optional[string] `json:"producto_principal"`
	TargetAudience optional[string] `json:"publico_objetivo"`
	Differentiator optional[string] `json:"diferencial"`
	BudgetRange    optional[string] `json:"rango_presupuesto"`
	Deadline       optional[string] `json:"fecha_limite"`
	Comments       optional[string] `json:"comentarios"`
}

type createLeadResponse struct {
	Message   string `json:"mensaje"`
	RequestID uint64 `json:"proyecto_id"`
	ContactID uint64 `json:"cliente_id"`
}

type contactResponse struct {
	ID          uint64    `json:"id"`
	FullName    string    `json:"nombre_completo"`
	Company     *string   `json:"empresa"`
	Email       string    `json:"correo"`
	Phone       *string   `json:"telefono"`
	WebOrSocial *string   `json:"sitio_web_o_redes"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

type leadResponse struct {
	ID             uint64          `json:"id"`
	ContactID      uint64          `json:"cliente_id"`
	BusinessType   *string         `json:"tipo_negocio"`
	MainProduct    string          `json:"producto_principal"`
	TargetAudience *string         `json:"publico_objetivo"`
	Differentiator *string         `json:"diferencial"`
	Budget         *float64        `json:"presupuesto"`
	BudgetRange    *string         `json:"rango_presupuesto"`
	Deadline       *time.Time      `json:"fecha_limite"`
	Comments       *string         `json:"comentarios"`
	CreatedAt      time.Time       `json:"fecha_creacion"`
	Contact        contactResponse `json:"cliente"`
}

type leadListItemResponse struct {
	RequestID      uint64     `json:"proyecto_id"`
	ContactID      uint64     `json:"cliente_id"`
	FullName       string     `json:"nombre_completo"`
	Company        string     `json:"empresa"`
	Email          string     `json:"correo"`
	Phone          string     `json:"telefono"`
	WebOrSocial    string     `json:"sitio_web_o_redes"`
	BusinessType   *string    `json:"tipo_negocio"`
	MainProduct    string     `json:"producto_principal"`
	TargetAudience *string    `json:"publico_objetivo"`
	Differentiator *string    `json:"diferencial"`
	BudgetRange    *string    `json:"rango_presupuesto"`
	Deadline       *time.Time `json:"fecha_limite"`
	Comments       *string    `json:"comentarios"`
	CreatedAt      time.Time  `json:"fecha_creacion"`
}

type leadListResponse struct {
	TotalItems  int64                  `json:"totalItems"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
	Data        []leadListItemResponse `json:"data"`
}

func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := decodeJSONLenient(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	var deadline *time.Time
	if req.Deadline != nil {
		parsed, err := parseDeadline(*req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid fecha_limite")
			return
		}
		deadline = parsed
	}

	result, err := h.Leads.CreateLead(r.Context(), leadsdomain.CreateInput{
		FullName:       req.FullName,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		WebOrSocial:    req.WebOrSocial,
		BusinessType:   req.BusinessType,
		MainProduct:    req.MainProduct,
		TargetAudience: req.TargetAudience,
		Differentiator: req.Differentiator,
		BudgetRange:    req.BudgetRange,
		Deadline:       deadline,
		Comments:       req.Comments,
	})
	if err != nil {
		h.writeLeadError(w, "leads.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, createLeadResponse{
		Message:   "Formulario guardado correctamente.",
		RequestID: result.RequestID,
		ContactID: result.ContactID,
	})
}

func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.Leads.ListLeads(r.Context(), leadsdomain.ListQuery{
		Page:     parseIntParamLenient(query.Get("page"), leadsdomain.DefaultPage),
		PageSize: parseIntParamLenient(query.Get("limit"), leadsdomain.DefaultPageSize),
		Search:   query.Get("search"),
	})
	if err != nil {
		h.writeLeadError(w, "leads.list", err)
		return
	}

	data := make([]leadListItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, toLeadListItemResponse(item))
	}

	writeJSON(w, http.StatusOK, leadListResponse{
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Data:        data,
	})
}

func (h *Handlers) GetLead(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	lead, err := h.Leads.GetLead(r.Context(), requestID)
	if err != nil {
		h.writeLeadError(w, "leads.get", err, "request_id", requestID)
		return
	}

	writeJSON(w, http.StatusOK, toLeadResponse(*lead))
}

func (h *Handlers) UpdateLead(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	var req updateLeadRequest
	if err := decodeJSONLenient(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid fecha_limite")
		return
	}

	if err := h.Leads.UpdateLead(r.Context(), requestID, patch); err != nil {
		h.writeLeadError(w, "leads.update", err, "request_id", requestID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Solicitud actualizada correctamente."})
}

func (h *Handlers) DeleteLead(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	if err := h.Leads.DeleteLead(r.Context(), requestID); err != nil {
		h.writeLeadError(w, "leads.delete", err, "request_id", requestID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Solicitud eliminada correctamente."})
}

func (h *Handlers) writeLeadError(w http.ResponseWriter, op string, err error, args ...any) {
	var validationErr *leadsdomain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.log.BusinessError(op+": validation failed", err, append(args, "field", validationErr.Field)...)
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.Is(err, leadsdomain.ErrContactNotFound):
		h.log.BusinessError(op+": contact missing", err, args...)
		writeError(w, http.StatusNotFound, "contact_not_found", "contact not found")
	case errors.Is(err, leadsdomain.ErrNotFound):
		h.log.BusinessError(op+": request not found", err, args...)
		writeError(w, http.StatusNotFound, "request_not_found", "request not found")
	case errors.Is(err, leadsdomain.ErrIntegrity):
		h.log.BusinessError(op+": integrity violation", err, args...)
		writeError(w, http.StatusConflict, "integrity_error", "request references a missing contact")
	default:
		h.log.InternalError(op+": storage failure", err, args...)
		h.writeInternal(w, err)
	}
}

func (req updateLeadRequest) toPatch() (leadsdomain.Patch, error) {
	patch := leadsdomain.Patch{
		Contact: leadsdomain.ContactPatch{
			FullName:    requiredText(req.FullName),
			Company:     nullableText(req.Company),
			Email:       requiredText(req.Email),
			Phone:       nullableText(req.Phone),
			WebOrSocial: nullableText(req.WebOrSocial),
		},
		Request: leadsdomain.RequestPatch{
			BusinessType:   nullableText(req.BusinessType),
			MainProduct:    requiredText(req.MainProduct),
			TargetAudience: nullableText(req.TargetAudience),
			Differentiator: nullableText(req.Differentiator),
			BudgetRange:    nullableText(req.BudgetRange),
			Comments:       nullableText(req.Comments),
		},
	}

	if req.Deadline.Set {
		patch.Request.Deadline.Set = true
		if req.Deadline.Value != nil {
			deadline, err := parseDeadline(*req.Deadline.Value)
			if err != nil {
				return leadsdomain.Patch{}, err
			}
			patch.Request.Deadline.Value = deadline
		}
	}

	return patch, nil
}

// requiredText maps an explicit null to an empty value so the service rejects it.
func requiredText(field optional[string]) leadsdomain.OptionalString {
	if !field.Set {
		return leadsdomain.OptionalString{}
	}
	if field.Value == nil {
		return leadsdomain.OptionalString{Set: true}
	}
	return leadsdomain.OptionalString{Set: true, Value: *field.Value}
}

func nullableText(field optional[string]) leadsdomain.OptionalNullableString {
	return leadsdomain.OptionalNullableString{Set: field.Set, Value: field.Value}
}

func toLeadResponse(lead leadsdomain.Lead) leadResponse {
	response := leadResponse{
		ID:             lead.ID,
		ContactID:      lead.ContactID,
		BusinessType:   lead.BusinessType,
		MainProduct:    lead.MainProduct,
		TargetAudience: lead.TargetAudience,
		Differentiator: lead.Differentiator,
		Budget:         budgetFloat(lead.Budget),
		BudgetRange:    lead.BudgetRange,
		Deadline:       lead.Deadline,
		Comments:       lead.Comments,
		CreatedAt:      lead.CreatedAt,
	}
	if lead.Contact != nil {
		response.Contact = contactResponse{
			ID:          lead.Contact.ID,
			FullName:    lead.Contact.FullName,
			Company:     lead.Contact.Company,
			Email:       lead.Contact.Email,
			Phone:       lead.Contact.Phone,
			WebOrSocial: lead.Contact.WebOrSocial,
			CreatedAt:   lead.Contact.CreatedAt,
		}
	}
	return response
}

func toLeadListItemResponse(item leadsdomain.ListItem) leadListItemResponse {
	return leadListItemResponse{
		RequestID:      item.RequestID,
		ContactID:      item.ContactID,
		FullName:       item.FullName,
		Company:        item.Company,
		Email:          item.Email,
		Phone:          item.Phone,
		WebOrSocial:    item.WebOrSocial,
		BusinessType:   item.BusinessType,
		MainProduct:    item.MainProduct,
		TargetAudience: item.TargetAudience,
		Differentiator: item.Differentiator,
		BudgetRange:    item.BudgetRange,
		Deadline:       item.Deadline,
		Comments:       item.Comments,
		CreatedAt:      item.CreatedAt,
	}
}

func budgetFloat(value decimal.NullDecimal) *float64 {
	if !value.Valid {
		return nil
	}
	f := value.Decimal.InexactFloat64()
	return &f
}
