package domain

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// Customer — покупатель. Email и документ уникальны глобально.
type Customer struct {
	ID    int64
	Name  string
	Email string
	// Document — CPF (11 цифр) или CNPJ (14 цифр), хранится в нормализованном виде.
	Document string
	// IsActive=false означает мягкое удаление.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты клиента и возвращает список замечаний.
func (c *Customer) Validate() []error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if !ValidEmail(c.Email) {
		errs = append(errs, ErrCustomerEmailInvalid)
	}
	if !ValidDocument(c.Document) {
		errs = append(errs, ErrCustomerDocumentInvalid)
	}

	return errs
}

// ValidEmail проверяет формат email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeDocument убирает из документа всё, кроме цифр.
func NormalizeDocument(document string) string {
	return nonDigits.ReplaceAllString(document, "")
}

// ValidDocument проверяет, что после нормализации документ содержит
// 11 цифр (CPF) либо 14 цифр (CNPJ).
func ValidDocument(document string) bool {
	switch len(NormalizeDocument(document)) {
	case 11, 14:
		return true
	default:
		return false
	}
}
