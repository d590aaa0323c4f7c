// Package bind decodes request bodies and validates them with go-playground/validator
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "notary/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps request bodies; proof file uploads are the largest payloads
const MaxBody = 4 << 20

// Validator pairs the shared validator with its english translator
type Validator struct {
	*validator.Validate
	trans ut.Translator
}

var (
	once   sync.Once
	shared *Validator
)

// Get returns the process wide validator. Field names in errors follow json tags
func Get() *Validator {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(v, trans)
		short(v, trans, "required", "{0} is required")
		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")

		shared = &Validator{Validate: v, trans: trans}
	})
	return shared
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// Check validates v and returns a Validation error naming the first bad field
func Check(v any) error {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

// ParseJSON decodes exactly one JSON value into T and validates it. Unknown
// fields, empty bodies and trailing data are JSON errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero, dst T
	if r.Body == nil {
		return zero, perr.JSONErrf("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if reflect.Indirect(reflect.ValueOf(dst)).Kind() != reflect.Struct {
		return dst, nil
	}
	if err := Check(dst); err != nil {
		return zero, err
	}
	return dst, nil
}
