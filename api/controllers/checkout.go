package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-loyalty/api/middleware"
	"github.com/angelmondragon/packfinderz-loyalty/api/responses"
	"github.com/angelmondragon/packfinderz-loyalty/api/validators"
	checkoutsvc "github.com/angelmondragon/packfinderz-loyalty/internal/checkout"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
)

type checkoutRequest struct {
	Items        []cartItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
	UsePoints    bool              `json:"use_points"`
	PointsToUse  int64             `json:"points_to_use" validate:"gte=0"`
	DeliveryMode string            `json:"delivery_mode" validate:"omitempty,delivery_mode"`
}

// CheckoutQuote prices the cart against the caller's balance without persisting anything.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		input, err := decodeCheckoutInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// CheckoutFinalize commits the order, its ledger rows, and the new balance.
func CheckoutFinalize(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		input, err := decodeCheckoutInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Finalize(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReceiptResponse(receipt))
	}
}

func decodeCheckoutInput(r *http.Request) (checkoutsvc.CheckoutInput, error) {
	customerID, err := customerIDFromContext(r)
	if err != nil {
		return checkoutsvc.CheckoutInput{}, err
	}

	var payload checkoutRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return checkoutsvc.CheckoutInput{}, err
	}

	cart, err := toCart(payload.Items)
	if err != nil {
		return checkoutsvc.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart")
	}

	mode := enums.DeliveryModeStorePickup
	if payload.DeliveryMode != "" {
		mode = enums.DeliveryMode(payload.DeliveryMode)
	}

	return checkoutsvc.CheckoutInput{
		CustomerID:   customerID,
		Cart:         cart,
		UsePoints:    payload.UsePoints,
		PointsToUse:  payload.PointsToUse,
		DeliveryMode: mode,
	}, nil
}

func customerIDFromContext(r *http.Request) (uuid.UUID, error) {
	customerID := middleware.CustomerIDFromContext(r.Context())
	if customerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	return customerID, nil
}
