package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsMatchSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want error
		kind Kind
	}{
		{DuplicateKey("product.Create", "product", "sku", nil), ErrDuplicateKey, KindDuplicateKey},
		{NotFound("product.Get", "product", 7), ErrNotFound, KindNotFound},
		{InsufficientStock("sales.Checkout", 1, "Tea", 2, 5), ErrInsufficientStock, KindInsufficientStock},
		{Validation("inventory.AdjustStock", "reason", "reason is required"), ErrValidation, KindValidation},
		{Storage("product.FindAll", errors.New("disk I/O error")), ErrStorage, KindStorage},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.want)
			assert.Equal(t, tc.kind, KindOf(wrapped))
		})
	}
}

func TestStorageKeepsExistingKind(t *testing.T) {
	nf := NotFound("category.Get", "category", 3)
	err := Storage("category.Update", nf)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Nil(t, Storage("noop", nil))
}

func TestErrorMessage(t *testing.T) {
	err := DuplicateKey("product.Create", "product", "sku", nil)
	assert.Equal(t, "product.Create: product sku already exists (sku)", err.Error())

	cause := errors.New("database is locked")
	err = Storage("sales.Checkout", cause)
	assert.Equal(t, "sales.Checkout: storage: database is locked", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Name     string `validate:"required,max=5"`
		Quantity int    `validate:"gt=0"`
	}

	require.NoError(t, ValidateStruct("test.Op", input{Name: "abc", Quantity: 1}))

	err := ValidateStruct("test.Op", input{Quantity: 1})
	require.ErrorIs(t, err, ErrValidation)
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Name", appErr.Field)
	assert.Equal(t, "is required", appErr.Message)

	err = ValidateStruct("test.Op", input{Name: "abc", Quantity: 0})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Quantity", appErr.Field)
	assert.Equal(t, "must be greater than 0", appErr.Message)
}
