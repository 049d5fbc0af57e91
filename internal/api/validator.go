package api

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/service/rules"
)

type requestValidator struct {
	validate *validator.Validate
}

func NewValidator() echo.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slotname", func(fl validator.FieldLevel) bool {
		return rules.IsSlotName(fl.Field().String())
	})

	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// binder validates every bound request.
type binder struct {
	echo.DefaultBinder
}

func NewBinder() echo.Binder {
	return &binder{}
}

func (b *binder) Bind(i interface{}, ctx echo.Context) error {
	if err := b.DefaultBinder.Bind(i, ctx); err != nil {
		return err
	}
	return ctx.Validate(i)
}

type jsonSerializer struct{}

func NewJSONSerializer() echo.JSONSerializer {
	return jsonSerializer{}
}

func (jsonSerializer) Serialize(ctx echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(ctx.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(ctx echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(ctx.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	return nil
}
