package portal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks v against its struct tags before anything is sent.
func validateInput(domain, op string, v any) error {
	if err := validate.Struct(v); err != nil {
		return shared.WrapError(domain, op, shared.ErrValidation, describe(err), err)
	}
	return nil
}

// requireID rejects empty identifiers used in paths.
func requireID(domain, op, field, value string) error {
	if err := validate.Var(strings.TrimSpace(value), "required"); err != nil {
		return shared.NewDomainError(domain, op, shared.ErrValidation, fmt.Sprintf("Datos inválidos: %s es obligatorio", field))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Datos inválidos"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" es obligatorio")
		case "email":
			parts = append(parts, field+" no es un correo válido")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s fuera de rango (%s=%s)", field, fe.Tag(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param()))
		default:
			parts = append(parts, field+" no es válido")
		}
	}
	return "Datos inválidos: " + strings.Join(parts, ", ")
}
