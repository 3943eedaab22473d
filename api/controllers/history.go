package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-loyalty/api/responses"
	"github.com/angelmondragon/packfinderz-loyalty/api/validators"
	"github.com/angelmondragon/packfinderz-loyalty/internal/accounts"
	"github.com/angelmondragon/packfinderz-loyalty/internal/ledger"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/types"
)

// PointsBalance returns the caller's spendable points.
func PointsBalance(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, balance)
	}
}

// PurchaseHistory lists the caller's purchased lines, newest order first.
func PurchaseHistory(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPurchases(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.PageEnvelope[purchaseEntryResponse]{
			Items:      newPurchaseEntryResponses(page.Items),
			NextCursor: page.NextCursor,
		})
	}
}

// PointsHistory lists the caller's points movements, newest first.
func PointsHistory(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPoints(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.PageEnvelope[pointsEntryResponse]{
			Items:      newPointsEntryResponses(page.Items),
			NextCursor: page.NextCursor,
		})
	}
}
