package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator bersama (thread-safe, cache struct diisi sekali).
var Validator = validator.New()

// ValidateStruct: nil kalau valid; selain itu map field → daftar rule yang gagal.
func ValidateStruct(v any) map[string][]string {
	err := Validator.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string][]string{"_": {err.Error()}}
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := toSnake(fe.Field())
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[field] = append(out[field], rule)
	}
	return out
}

// ValidationError: hasil validasi field, dipetakan ke 422 oleh JsonFromError.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// normalizer: DTO yang merapikan input (trim / lowercase) sebelum divalidasi.
type normalizer interface{ Normalize() }

// BindAndValidate: parse body (JSON / form), Normalize() kalau ada, lalu validasi.
// Body kosong dianggap struct kosong (tetap divalidasi).
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return Validate(dst)
}

// BindQuery: parse query string lalu validasi.
func BindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	return Validate(dst)
}

func Validate(v any) error {
	if errs := ValidateStruct(v); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
