package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postboard/internal/common"
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func requireNonBlank(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", validationError("%s is required", field)
	}
	return v, nil
}
