package controllers

import (
	"net/http"

	"github.com/mgiordano-dev/presupuestador-backend/api/responses"
	"github.com/mgiordano-dev/presupuestador-backend/api/validators"
	"github.com/mgiordano-dev/presupuestador-backend/internal/budget"
	"github.com/mgiordano-dev/presupuestador-backend/internal/lineitems"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
)

type budgetSaveRequest struct {
	Items           []budget.CartItem `json:"items"`
	DiscountPercent float64           `json:"discount_percent" validate:"gte=0,lte=100"`
}

type budgetQuoteRequest struct {
	Items           []budget.CartItem `json:"items"`
	DiscountPercent float64           `json:"discount_percent" validate:"gte=0,lte=100"`
}

// BudgetFetch loads the saved cart and its totals for a project.
func BudgetFetch(svc lineitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		projectID, err := pathUUID(r, "projectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.LoadForProject(r.Context(), userID, projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// BudgetSave replaces the project's cart wholesale. A concurrent save for the
// same project is rejected with a retryable conflict.
func BudgetSave(svc lineitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		projectID, err := pathUUID(r, "projectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body budgetSaveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.ReplaceForProject(r.Context(), userID, projectID, body.Items, body.DiscountPercent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, totals)
	}
}

// BudgetQuote computes totals for a cart without persisting anything.
func BudgetQuote(svc lineitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body budgetQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Quote(r.Context(), body.Items, body.DiscountPercent))
	}
}
