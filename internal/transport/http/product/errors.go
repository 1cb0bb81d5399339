package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	domain "github.com/weibuddies/products-service/internal/app/product/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// statusFor translates domain sentinel errors into HTTP status codes.
// Unknown errors (storage unavailable and the like) become 500; the
// message is not leaked for those.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, domain.ErrProductNotFound.Error()

	case errors.Is(err, domain.ErrNotProductOwner):
		return http.StatusForbidden, domain.ErrNotProductOwner.Error()

	case errors.Is(err, domain.ErrProductReserved):
		return http.StatusBadRequest, domain.ErrProductReserved.Error()

	case errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrProductExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}

	return http.StatusInternalServerError, "internal error"
}
