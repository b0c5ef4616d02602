package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodhub/pkg/validate"
)

type lineInput struct {
	FoodID   uint `json:"foodId"   validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gte=1,lte=100"`
}

type orderInput struct {
	Items []lineInput `json:"items" validate:"dive"`
}

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"nullable,in=ADMIN|CUSTOMER|DELIVERY_PARTNER"`
}

func TestValidRegisterInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "secret1",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(registerInput{})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "role", "nullable field should be skipped when empty")
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "abc", Email: "not-an-email", Password: "secret1"})
	assert.Contains(t, errs, "email")
}

func TestAlphaDash(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "bad name!", Email: "a@b.co", Password: "secret1"})
	assert.Contains(t, errs, "username")
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "abc", Email: "a@b.co", Password: "secret1", Role: "ROOT"})
	assert.Contains(t, errs, "role")

	errs = validate.Struct(registerInput{Username: "abc", Email: "a@b.co", Password: "secret1", Role: "CUSTOMER"})
	assert.Empty(t, errs)
}

func TestDiveReportsIndexedField(t *testing.T) {
	errs := validate.Struct(orderInput{Items: []lineInput{
		{FoodID: 1, Quantity: 2},
		{FoodID: 2, Quantity: 0},
	}})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "items[1].quantity")
}

func TestDiveEmptySliceIsValid(t *testing.T) {
	// An empty order is a domain error, not a binding error.
	errs := validate.Struct(orderInput{})
	assert.Empty(t, errs)
}

func TestDecimalBounds(t *testing.T) {
	type priced struct {
		Price decimal.Decimal `json:"price" validate:"gt=0"`
	}

	assert.Contains(t, validate.Struct(priced{Price: decimal.Zero}), "price")
	assert.Contains(t, validate.Struct(priced{Price: decimal.RequireFromString("-1.50")}), "price")
	assert.Empty(t, validate.Struct(priced{Price: decimal.RequireFromString("0.01")}))
}

func TestPointerFieldsAreDereferenced(t *testing.T) {
	type patch struct {
		Name *string `json:"name" validate:"nullable,min=2"`
	}

	short := "a"
	ok := "ab"
	assert.Empty(t, validate.Struct(patch{}))
	assert.Contains(t, validate.Struct(patch{Name: &short}), "name")
	assert.Empty(t, validate.Struct(patch{Name: &ok}))
}

func TestUUIDRule(t *testing.T) {
	type ref struct {
		Ref string `json:"ref" validate:"required,uuid"`
	}
	assert.Contains(t, validate.Struct(ref{Ref: "nope"}), "ref")
	assert.Empty(t, validate.Struct(ref{Ref: "3f1c9a7e-6a43-4d5e-9c2b-1b2c3d4e5f60"}))
}
