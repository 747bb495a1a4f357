package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/stridewear/storefront-backend/api/responses"
	"github.com/stridewear/storefront-backend/api/validators"
	"github.com/stridewear/storefront-backend/internal/catalog"
	pkgerrors "github.com/stridewear/storefront-backend/pkg/errors"
	"github.com/stridewear/storefront-backend/pkg/logger"
)

// ProductList serves the browsable catalog with optional category, brand,
// gender and free-text filters.
func ProductList(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{
			CategorySlug: validators.ParseQueryString(r, "category", ""),
			BrandSlug:    validators.ParseQueryString(r, "brand", ""),
			Gender:       validators.ParseQueryString(r, "gender", ""),
			Query:        validators.ParseQueryString(r, "q", ""),
		}

		list, err := repo.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductDetail serves a single product page by slug.
func ProductDetail(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		product, err := repo.FindBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}
