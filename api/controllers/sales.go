package controllers

import (
	"net/http"

	"github.com/jewelstack/jewelpos-backend/api/middleware"
	"github.com/jewelstack/jewelpos-backend/api/responses"
	"github.com/jewelstack/jewelpos-backend/api/validators"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	"github.com/jewelstack/jewelpos-backend/internal/billing"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

type completeSaleRequest struct {
	CustomerName  string             `json:"customerName" validate:"required"`
	CustomerPhone string             `json:"customerPhone" validate:"required"`
	RateOverrides map[string]float64 `json:"rateOverrides"`
}

// CompleteSale turns the session cart into persisted bills. On success the
// cart is cleared and the session rates are zeroed so the next sale starts
// from a clean slate; a partial submission leaves the session untouched so
// the operator can retry the unrecorded items.
func CompleteSale(engine *billing.Engine, sessions *billing.SessionStore, state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil || sessions == nil || state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale dependencies not wired"))
			return
		}

		var payload completeSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		lines := sessions.Cart(sessionID)
		bctx := sessions.Context(sessionID)
		cust := billing.Customer{Name: payload.CustomerName, Phone: payload.CustomerPhone}

		result, err := engine.CompleteSale(r.Context(), lines, bctx, cust, payload.RateOverrides)
		if err != nil {
			if result != nil {
				// Some bills made it to the store before the failure. The
				// cache must reflect them even though the sale errored.
				state.OnSaleCompleted(r.Context())
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessions.CompleteSaleReset(sessionID)
		state.OnSaleCompleted(r.Context())

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
