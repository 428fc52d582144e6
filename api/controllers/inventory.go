package controllers

import (
	"net/http"

	"github.com/jewelstack/jewelpos-backend/api/responses"
	"github.com/jewelstack/jewelpos-backend/api/validators"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	inventorysvc "github.com/jewelstack/jewelpos-backend/internal/inventory"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

func ListInventory(state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state unavailable"))
			return
		}

		items, err := state.Inventory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func UpsertInventory(state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state unavailable"))
			return
		}

		var payload inventorysvc.ItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := state.UpsertInventory(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// LowStockInventory lists records at or below their minimum stock level.
func LowStockInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		items, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// ReconcileInventory reports catalog quantities that disagree with tracked
// stock, including products with no stock record at all.
func ReconcileInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		drifts, err := svc.Reconcile(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, drifts)
	}
}
