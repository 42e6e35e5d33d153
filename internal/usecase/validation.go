package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/ttacon/libphonenumber"
)

const (
	caseNumberPrefix   = "SPR-"
	caseNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	caseNumberLength   = 10
)

var imeiPattern = regexp.MustCompile(`^[0-9]{15}$`)

// ValidIMEI reports whether s is exactly 15 ASCII digits.
func ValidIMEI(s string) bool {
	return imeiPattern.MatchString(s)
}

// InputValidator checks request structs and normalizes phone numbers.
type InputValidator struct {
	validate      *validator.Validate
	defaultRegion string
}

// NewInputValidator creates a validator that reads phone numbers without a
// country prefix as numbers of defaultRegion.
func NewInputValidator(defaultRegion string) *InputValidator {
	v := validator.New()
	_ = v.RegisterValidation("imei", func(fl validator.FieldLevel) bool {
		return ValidIMEI(fl.Field().String())
	})
	_ = v.RegisterValidation("incident_type", func(fl validator.FieldLevel) bool {
		switch entity.IncidentType(fl.Field().String()) {
		case entity.IncidentTheft, entity.IncidentRobbery, entity.IncidentBurglary,
			entity.IncidentLost, entity.IncidentOther:
			return true
		}
		return false
	})

	if defaultRegion == "" {
		defaultRegion = "NG"
	}
	return &InputValidator{
		validate:      v,
		defaultRegion: strings.ToUpper(defaultRegion),
	}
}

// Struct validates i and returns a readable message for the first failure.
func (v *InputValidator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return errors.New(describeFieldError(fieldErrs[0]))
}

// NormalizePhone returns raw in E.164 form. An empty input stays empty.
func (v *InputValidator) NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	p, err := libphonenumber.Parse(raw, v.defaultRegion)
	if err != nil {
		return "", fmt.Errorf("phone number is not valid: %w", err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", errors.New("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

func describeFieldError(fe validator.FieldError) string {
	field := toSnakeCase(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "imei":
		return field + " must be exactly 15 digits"
	case "incident_type":
		return field + " must be one of theft, robbery, burglary, lost, other"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewCaseNumber returns a human readable case number such as SPR-7K2M9QX4TB.
func NewCaseNumber() (string, error) {
	id, err := gonanoid.Generate(caseNumberAlphabet, caseNumberLength)
	if err != nil {
		return "", err
	}
	return caseNumberPrefix + id, nil
}
