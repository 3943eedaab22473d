package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-loyalty/api/responses"
	"github.com/angelmondragon/packfinderz-loyalty/api/validators"
	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/types"
)

type accrualRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,max=500,dive"`
}

// LoyaltyAccrual reports the points a cart would earn.
func LoyaltyAccrual(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload accrualRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := toCart(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"points": loyalty.AccruedPoints(cart)})
	}
}

type discountRequest struct {
	AvailablePoints int64  `json:"available_points" validate:"gte=0"`
	Subtotal        string `json:"subtotal" validate:"required,amount"`
}

// LoyaltyDiscount resolves the best discount a balance buys on a subtotal.
func LoyaltyDiscount(policy loyalty.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subtotal, err := types.ParseAmount(payload.Subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDiscountResponse(policy.ResolveDiscount(payload.AvailablePoints, subtotal)))
	}
}
