package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"lead-intake-go/internal/auth"
	dashboarddomain "lead-intake-go/internal/domain/dashboard"
	leadsdomain "lead-intake-go/internal/domain/leads"
	userdomain "lead-intake-go/internal/domain/user"
	"lead-intake-go/pkg/logger"
)

type Options struct {
	AllowSignup bool
	// ExposeErrors puts the underlying error text into 500 responses.
	ExposeErrors bool
}

type Handlers struct {
	Leads     *leadsdomain.Service
	Dashboard *dashboarddomain.Service
	Users     *userdomain.Service
	Gate      *auth.Gate

	opts     Options
	validate *validator.Validate
	log      logger.Logger
}

func New(leads *leadsdomain.Service, dashboard *dashboarddomain.Service, users *userdomain.Service, gate *auth.Gate, opts Options, log logger.Logger) *Handlers {
	return &Handlers{
		Leads:     leads,
		Dashboard: dashboard,
		Users:     users,
		Gate:      gate,
		opts:      opts,
		validate:  newValidator(),
		log:       log,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}
