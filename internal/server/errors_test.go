package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carrierrates/internal/rate"
)

// helper to parse standardized error
type stdError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) stdError {
	t.Helper()
	var e stdError
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	return e
}

func TestPostRates_InvalidJSON(t *testing.T) {
	h := New(nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader("{")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
	}
	if e := decodeError(t, rr); e.Error.Code != "invalid_json" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}

func TestPostRates_NoPackages(t *testing.T) {
	h := New(nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(`{"shipment":{}}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Error.Code != "invalid_request" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}

func TestPostRates_UnsupportedProvider(t *testing.T) {
	h := New(nil)
	body := strings.Replace(quoteBody, `"shipment"`, `"provider": "karrio", "shipment"`, 1)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d; body=%s", rr.Code, rr.Body.String())
	}
	if e := decodeError(t, rr); e.Error.Code != "unsupported_provider" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}

func TestPostRates_CarrierFault(t *testing.T) {
	fault := `<Fault><detail><fault><reason>Invalid input</reason><details><ValidationFailureDetail>
<message>A</message><message>B</message></ValidationFailureDetail></details></fault></detail></Fault>`
	h := New(fedexServer(t, http.StatusInternalServerError, fault))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(quoteBody)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d; body=%s", rr.Code, rr.Body.String())
	}
	e := decodeError(t, rr)
	if e.Error.Code != "rate_request_failed" || e.Error.Message != "Invalid input\n--A\n--B" {
		t.Fatalf("unexpected error: %+v", e.Error)
	}
}

func TestPostRates_MalformedReply(t *testing.T) {
	reply := `<RateReply><HighestSeverity>NOTE</HighestSeverity><RateReplyDetails><ServiceType>X</ServiceType></RateReplyDetails></RateReply>`
	h := New(fedexServer(t, http.StatusOK, reply))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(quoteBody)))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d; body=%s", rr.Code, rr.Body.String())
	}
	if e := decodeError(t, rr); e.Error.Code != "malformed_rate_reply" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}

type downProvider struct{}

func (downProvider) Rates(context.Context, rate.Shipment, rate.Options) ([]rate.Quote, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestPostRates_TransportError(t *testing.T) {
	reg := rate.NewRegistry("down")
	reg.Register("down", downProvider{})
	h := New(reg)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(quoteBody)))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Error.Code != "carrier_unavailable" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}

func TestGetRates_InvalidWeight(t *testing.T) {
	h := New(nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rates?weight_oz=heavy", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Error.Code != "invalid_weight" {
		t.Fatalf("unexpected error code: %s", e.Error.Code)
	}
}
