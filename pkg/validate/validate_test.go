package validate_test

import (
	"testing"

	"github.com/zaikahq/zaika/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                  validate:"required,min=2,max=120"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	Role                 string `json:"role"                  validate:"nullable,in=user,admin,restaurant"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Asha",
		Email:                "asha@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Role:                 "",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestQuantityBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
	}
	if errs := validate.Struct(in{Quantity: -1}); !validate.HasErrors(errs) {
		t.Error("expected negative quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 5}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 5 to pass, got: %v", errs)
	}
}

func TestInRuleKeepsParamCommas(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=user,admin,restaurant,max=20"`
	}
	if errs := validate.Struct(in{Role: "courier"}); !validate.HasErrors(errs) {
		t.Error("expected role outside list to fail")
	}
	if errs := validate.Struct(in{Role: "restaurant"}); validate.HasErrors(errs) {
		t.Errorf("expected listed role to pass, got: %v", errs)
	}
}

func TestConfirmed(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Asha",
		Email:                "asha@example.com",
		Password:             "secret123",
		PasswordConfirmation: "different",
	})
	if _, ok := errs["password_confirmation"]; !ok {
		t.Errorf("expected confirmation mismatch error, got: %v", errs)
	}
}
