package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jewelstack/jewelpos-backend/api/responses"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	billsvc "github.com/jewelstack/jewelpos-backend/internal/bills"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

func ListBills(state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state unavailable"))
			return
		}

		bills, err := state.Bills(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bills)
	}
}

// GetBill reads a single bill straight from the service; bill lookups bypass
// the list cache so a just-persisted invoice is always retrievable.
func GetBill(svc billsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}

		billNo := strings.TrimSpace(chi.URLParam(r, "billNo"))
		if billNo == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bill number is required"))
			return
		}

		bill, err := svc.GetBill(r.Context(), billNo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bill)
	}
}

func DeleteBill(state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state unavailable"))
			return
		}

		billNo := strings.TrimSpace(chi.URLParam(r, "billNo"))
		if billNo == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bill number is required"))
			return
		}

		if err := state.DeleteBill(r.Context(), billNo); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"billNo": billNo, "status": "deleted"})
	}
}
