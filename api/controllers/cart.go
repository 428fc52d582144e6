package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jewelstack/jewelpos-backend/api/middleware"
	"github.com/jewelstack/jewelpos-backend/api/responses"
	"github.com/jewelstack/jewelpos-backend/api/validators"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	"github.com/jewelstack/jewelpos-backend/internal/billing"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

type cartTotalsView struct {
	Subtotal      float64 `json:"subtotal"`
	MakingCharges float64 `json:"makingCharges"`
	GST           float64 `json:"gst"`
	Total         float64 `json:"total"`
}

type cartView struct {
	Lines  []billing.CartLine `json:"lines"`
	Totals cartTotalsView     `json:"totals"`
}

func buildCartView(sessions *billing.SessionStore, sessionID string) cartView {
	lines := sessions.Cart(sessionID)
	totals := billing.PreviewTotals(lines, sessions.Context(sessionID))
	return cartView{
		Lines: lines,
		Totals: cartTotalsView{
			Subtotal:      billing.RoundMoney(totals.Subtotal).InexactFloat64(),
			MakingCharges: billing.RoundMoney(totals.MakingCharges).InexactFloat64(),
			GST:           billing.RoundMoney(totals.GST).InexactFloat64(),
			Total:         billing.RoundMoney(totals.Total).InexactFloat64(),
		},
	}
}

// ViewCart returns the session's cart lines plus a priced preview computed
// from the session's billing context.
func ViewCart(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, buildCartView(sessions, sessionID))
	}
}

type addCartLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// AddCartLine adds a product to the session cart, incrementing the quantity
// when the product is already present.
func AddCartLine(sessions *billing.SessionStore, state *appstate.State, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil || state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart dependencies not wired"))
			return
		}

		var payload addCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := state.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		idx := -1
		for i := range products {
			if products[i].ProductID == payload.ProductID {
				idx = i
				break
			}
		}
		if idx < 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		if products[idx].Quantity <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessions.WithCart(sessionID, func(c *billing.Cart) {
			c.AddLine(products[idx])
		})

		responses.WriteSuccess(w, buildCartView(sessions, sessionID))
	}
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetCartQuantity pins a cart line to an explicit quantity. Quantities above
// the product's stock snapshot are clamped; zero or below removes the line.
func SetCartQuantity(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessions.WithCart(sessionID, func(c *billing.Cart) {
			c.SetQuantity(productID, payload.Quantity)
		})

		responses.WriteSuccess(w, buildCartView(sessions, sessionID))
	}
}

func RemoveCartLine(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessions.WithCart(sessionID, func(c *billing.Cart) {
			c.RemoveLine(productID)
		})

		responses.WriteSuccess(w, buildCartView(sessions, sessionID))
	}
}

func ClearCart(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessions.WithCart(sessionID, func(c *billing.Cart) {
			c.Clear()
		})

		responses.WriteSuccess(w, buildCartView(sessions, sessionID))
	}
}

func GetBillingContext(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, sessions.Context(sessionID))
	}
}

type setBillingContextRequest struct {
	GoldRatePer10g      float64 `json:"goldRatePer10g" validate:"gte=0"`
	SilverRatePer10g    float64 `json:"silverRatePer10g" validate:"gte=0"`
	MakingChargePercent float64 `json:"makingChargePercent" validate:"gte=0,lte=100"`
	GSTPercent          float64 `json:"gstPercent" validate:"gte=0,lte=100"`
}

// SetBillingContext replaces the session's rates and percentages in one shot.
func SetBillingContext(sessions *billing.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		var payload setBillingContextRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		bctx := billing.Context{
			GoldRatePer10g:      payload.GoldRatePer10g,
			SilverRatePer10g:    payload.SilverRatePer10g,
			MakingChargePercent: payload.MakingChargePercent,
			GSTPercent:          payload.GSTPercent,
		}
		sessions.SetContext(sessionID, bctx)

		responses.WriteSuccess(w, bctx)
	}
}
