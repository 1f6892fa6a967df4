package httpapi

import (
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/retail-oms/internal/domain"
)

// statusForError отображает доменную ошибку на HTTP-статус:
// отсутствующие сущности — 404, конфликты уникальности — 409,
// нарушенные бизнес-правила — 422, ошибки валидации входа — 400.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateDocument),
		errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrCustomerInactive),
		errors.Is(err, domain.ErrProductInactive),
		errors.Is(err, domain.ErrOrderCannotBeCancelled),
		errors.Is(err, domain.ErrOrderCannotBePaid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIdempotencyKeyRequired),
		domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, message)
}
