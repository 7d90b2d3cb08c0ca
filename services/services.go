// Package services holds the menu catalog, table registry and order
// aggregate logic on top of gorm.
package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/qr-table-order/apperror"
)

// EventPublisher receives change notifications for the admin feed.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

var validate = newValidator()

// Inputs share their "binding" tags with gin so the same rules apply at the
// HTTP boundary and in direct service calls.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterJSONFieldNames(v)
	return v
}

// RegisterJSONFieldNames makes validation errors report JSON field names.
func RegisterJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateInput(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return apperror.FromBinding(err)
	}
	return nil
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
