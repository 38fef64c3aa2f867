package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/api/middleware"
	"github.com/mgiordano-dev/presupuestador-backend/internal/budget"
	"github.com/mgiordano-dev/presupuestador-backend/internal/lineitems"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
)

type stubBudgetService struct {
	dto    lineitems.BudgetDTO
	totals budget.Totals
	err    error

	savedItems    []budget.CartItem
	savedDiscount float64
}

func (s *stubBudgetService) LoadForProject(ctx context.Context, userID, projectID uuid.UUID) (lineitems.BudgetDTO, error) {
	return s.dto, s.err
}

func (s *stubBudgetService) ReplaceForProject(ctx context.Context, userID, projectID uuid.UUID, items []budget.CartItem, discountPercent float64) (budget.Totals, error) {
	s.savedItems = items
	s.savedDiscount = discountPercent
	return s.totals, s.err
}

func (s *stubBudgetService) Quote(ctx context.Context, items []budget.CartItem, discountPercent float64) budget.Totals {
	return budget.Aggregate(items, discountPercent)
}

func (s *stubBudgetService) ListRows(ctx context.Context, userID, projectID uuid.UUID) ([]lineitems.RowDTO, error) {
	return nil, s.err
}

func (s *stubBudgetService) CreateRow(ctx context.Context, userID, projectID uuid.UUID, input lineitems.RowInput) (lineitems.RowDTO, error) {
	return lineitems.RowDTO{}, s.err
}

func (s *stubBudgetService) UpdateRow(ctx context.Context, userID, projectID, rowID uuid.UUID, input lineitems.RowInput) (lineitems.RowDTO, error) {
	return lineitems.RowDTO{}, s.err
}

func (s *stubBudgetService) DeleteRow(ctx context.Context, userID, projectID, rowID uuid.UUID) error {
	return s.err
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestBudgetQuoteComputesTotals(t *testing.T) {
	payload := []byte(`{"items":[{"id":"row-1","name":"Cemento","category":"materials","unit_price":100,"cost":60,"labor":10,"quantity":2}],"discount_percent":10}`)

	req := authedRequest(http.MethodPost, "/api/v1/budget/quote", payload)
	resp := httptest.NewRecorder()

	BudgetQuote(&stubBudgetService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data budget.Totals `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if math.Abs(envelope.Data.Subtotal-200) > 0.001 {
		t.Fatalf("expected subtotal 200 got %f", envelope.Data.Subtotal)
	}
	if math.Abs(envelope.Data.GrandTotal-180) > 0.001 {
		t.Fatalf("expected grand total 180 got %f", envelope.Data.GrandTotal)
	}
	if math.Abs(envelope.Data.TotalLabor-20) > 0.001 {
		t.Fatalf("expected labor 20 got %f", envelope.Data.TotalLabor)
	}
}

func TestBudgetQuoteRejectsBadDiscount(t *testing.T) {
	payload := []byte(`{"items":[],"discount_percent":150}`)

	req := authedRequest(http.MethodPost, "/api/v1/budget/quote", payload)
	resp := httptest.NewRecorder()

	BudgetQuote(&stubBudgetService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBudgetSaveInProgressConflict(t *testing.T) {
	svc := &stubBudgetService{err: pkgerrors.New(pkgerrors.CodeSaveInProgress, "save already in progress")}

	req := authedRequest(http.MethodPut, "/api/v1/projects/"+uuid.NewString()+"/budget", []byte(`{"items":[],"discount_percent":0}`))
	req = withURLParam(req, "projectId", uuid.NewString())
	resp := httptest.NewRecorder()

	BudgetSave(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeSaveInProgress) {
		t.Fatalf("expected save-in-progress code got %q", envelope.Error.Code)
	}
}

func TestBudgetSaveForwardsPayload(t *testing.T) {
	svc := &stubBudgetService{totals: budget.Totals{Subtotal: 500, GrandTotal: 500}}

	req := authedRequest(http.MethodPut, "/api/v1/projects/"+uuid.NewString()+"/budget", []byte(`{"items":[{"id":"row-1","name":"Ladrillos","category":"materials","unit_price":500,"quantity":1}],"discount_percent":5}`))
	req = withURLParam(req, "projectId", uuid.NewString())
	resp := httptest.NewRecorder()

	BudgetSave(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.savedItems) != 1 || svc.savedItems[0].Name != "Ladrillos" {
		t.Fatalf("expected forwarded cart got %+v", svc.savedItems)
	}
	if svc.savedDiscount != 5 {
		t.Fatalf("expected discount 5 got %f", svc.savedDiscount)
	}
}
