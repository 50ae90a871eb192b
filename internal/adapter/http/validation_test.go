package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udhar-ledger/internal/usecase/identity"
	"udhar-ledger/internal/usecase/payment"
)

func TestFieldErrors_UseJSONNames(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&identity.RegisterInput{Phone: "0300", Email: "nope", Password: "abc"})
	require.Error(t, err)
	fe := ToFieldErrors(err)

	assert.True(t, containsFieldMsg(fe, "name", "is required"), "%+v", fe)
	assert.True(t, containsFieldMsg(fe, "email", "valid email"), "%+v", fe)
	assert.True(t, containsFieldMsg(fe, "password", "at least 6"), "%+v", fe)
}

func TestFieldErrors_MinMaxWordingFollowsKind(t *testing.T) {
	type bounds struct {
		Name  string   `json:"name" validate:"min=3"`
		Count int      `json:"count" validate:"max=12"`
		Tags  []string `json:"tags" validate:"min=1"`
	}
	err := NewValidator().Validate(&bounds{Name: "ab", Count: 20})
	require.Error(t, err)
	fe := ToFieldErrors(err)

	assert.Contains(t, fe, FieldError{Field: "name", Message: "must be at least 3 characters"})
	assert.Contains(t, fe, FieldError{Field: "count", Message: "must be at most 12"})
	assert.Contains(t, fe, FieldError{Field: "tags", Message: "must be at least 1 items"})
}

func TestDec2Validation(t *testing.T) {
	cv := NewValidator()

	for _, v := range []float64{0.01, 2000, 3041.10, 5041.1} {
		assert.NoError(t, cv.Validate(&payment.RecordInput{Amount: v, Method: "cash"}), "amount %v", v)
	}
	for _, v := range []float64{0.001, 10.555} {
		err := cv.Validate(&payment.RecordInput{Amount: v, Method: "cash"})
		require.Error(t, err, "amount %v", v)
		assert.True(t, containsFieldMsg(ToFieldErrors(err), "amount", "2 decimal places"))
	}
}

func TestPaymentValidation_RequiresPositiveAmountAndMethod(t *testing.T) {
	err := NewValidator().Validate(&payment.RecordInput{Amount: 0})
	require.Error(t, err)
	fe := ToFieldErrors(err)
	assert.True(t, containsFieldMsg(fe, "amount", "greater than 0"), "%+v", fe)
	assert.True(t, containsFieldMsg(fe, "method", "is required"), "%+v", fe)
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	require.Len(t, fe, 1)
	assert.Equal(t, FieldError{Field: "_", Message: "boom"}, fe[0])
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
