package skipapi

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/Makepad-fr/skips/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// skipRecord is the wire shape. Pointers let validation tell a missing
// field from a zero value.
type skipRecord struct {
	ID             *int             `json:"id" validate:"required"`
	Size           *int             `json:"size" validate:"required,gt=0"`
	PriceBeforeVAT *decimal.Decimal `json:"price_before_vat" validate:"required,gte=0"`
	VAT            *decimal.Decimal `json:"vat" validate:"required,gte=0"`
	HirePeriodDays *int             `json:"hire_period_days" validate:"required,gt=0"`
	AllowedOnRoad  *bool            `json:"allowed_on_road" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Compare decimals as floats; only the sign matters for our rules.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func toSkips(records []skipRecord) ([]model.Skip, error) {
	skips := make([]model.Skip, 0, len(records))
	seen := make(map[int]int, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, schemaError(i, err)
		}
		if first, dup := seen[*r.ID]; dup {
			return nil, &SchemaError{Index: i, Field: "id", Reason: "duplicates record " + strconv.Itoa(first)}
		}
		seen[*r.ID] = i
		skips = append(skips, model.Skip{
			ID:             *r.ID,
			Size:           *r.Size,
			PriceBeforeVAT: *r.PriceBeforeVAT,
			VAT:            *r.VAT,
			HirePeriodDays: *r.HirePeriodDays,
			AllowedOnRoad:  *r.AllowedOnRoad,
		})
	}
	return skips, nil
}

func schemaError(index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &SchemaError{Index: index, Reason: err.Error()}
	}
	fe := verrs[0]
	reason := "is " + fe.Tag()
	switch fe.Tag() {
	case "required":
		reason = "is missing"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "gte":
		reason = "must not be less than " + fe.Param()
	}
	return &SchemaError{Index: index, Field: fe.Field(), Reason: reason}
}
