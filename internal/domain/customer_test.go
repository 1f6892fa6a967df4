package domain

import (
	"errors"
	"testing"
)

func TestCustomerValidate(t *testing.T) {
	customer := Customer{Name: "Ana Souza", Email: "ana@example.com", Document: "12345678901"}
	if errs := customer.Validate(); len(errs) != 0 {
		t.Fatalf("valid customer returned errors: %v", errs)
	}

	cases := []struct {
		name     string
		customer Customer
		wantErr  error
	}{
		{"empty name", Customer{Email: "a@b.co", Document: "12345678901"}, ErrCustomerNameRequired},
		{"bad email", Customer{Name: "N", Email: "not-an-email", Document: "12345678901"}, ErrCustomerEmailInvalid},
		{"short document", Customer{Name: "N", Email: "a@b.co", Document: "123"}, ErrCustomerDocumentInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.customer.Validate()
			if !errors.Is(errors.Join(errs...), tc.wantErr) {
				t.Errorf("expected %v in %v", tc.wantErr, errs)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"ana@example.com", true},
		{"bruno.lima+tag@sub.example.com.br", true},
		{"no-at-sign", false},
		{"@example.com", false},
		{"ana@", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidEmail(tc.email); got != tc.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestNormalizeDocument(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123.456.789-01", "12345678901"},
		{"12.345.678/0001-99", "12345678000199"},
		{"12345678901", "12345678901"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeDocument(tc.in); got != tc.want {
			t.Errorf("NormalizeDocument(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidDocument(t *testing.T) {
	cases := []struct {
		document string
		want     bool
	}{
		{"123.456.789-01", true},
		{"12.345.678/0001-99", true},
		{"12345678901", true},
		{"12345678000199", true},
		{"123456789012", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidDocument(tc.document); got != tc.want {
			t.Errorf("ValidDocument(%q) = %v, want %v", tc.document, got, tc.want)
		}
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrTotalMismatch) {
		t.Error("ErrTotalMismatch must be a validation error")
	}
	if !IsValidation(errors.Join(ErrItemQtyInvalid, ErrItemPriceInvalid)) {
		t.Error("joined validation errors must still match")
	}
	if IsValidation(ErrOrderNotFound) {
		t.Error("ErrOrderNotFound is not a validation error")
	}
	if IsValidation(ErrInsufficientStock) {
		t.Error("ErrInsufficientStock is a business rule, not validation")
	}
}
