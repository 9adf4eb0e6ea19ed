package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return strings.ToLower(f.Name)
		}
		return tag
	})
	return v
}

func normalizeProductForm(form models.ProductForm) models.ProductForm {
	return models.ProductForm{
		Name:        strings.TrimSpace(form.Name),
		SKU:         strings.TrimSpace(form.SKU),
		Description: strings.TrimSpace(form.Description),
	}
}

func validateProductForm(form models.ProductForm) error {
	if err := validate.Struct(form); err != nil {
		return validationError(err)
	}
	return nil
}

// parseStockForm coerces the text inputs of the stock form.
func parseStockForm(form models.StockForm) (models.StockCommand, error) {
	var problems []string

	typ, err := models.ParseTransactionType(form.TransactionType)
	if err != nil {
		problems = append(problems, "transaction type must be IN or OUT")
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(form.Product), 10, 64)
	if err != nil || productID <= 0 {
		problems = append(problems, "select a product")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(form.Quantity))
	if err != nil || quantity <= 0 {
		problems = append(problems, "quantity must be a positive whole number")
	}

	if len(problems) > 0 {
		return models.StockCommand{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	cmd := models.StockCommand{Type: typ, ProductID: productID, Quantity: quantity}
	if err := validate.Struct(cmd); err != nil {
		return models.StockCommand{}, validationError(err)
	}
	return cmd, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe)))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
