package controllers

import (
	"net/http"

	"github.com/stridewear/storefront-backend/api/responses"
	"github.com/stridewear/storefront-backend/api/validators"
	checkoutsvc "github.com/stridewear/storefront-backend/internal/checkout"
	"github.com/stridewear/storefront-backend/internal/identity"
	"github.com/stridewear/storefront-backend/pkg/logger"
)

// Checkout converts the caller's cart into an order and returns the receipt.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := identity.Resolve(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), owner, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
