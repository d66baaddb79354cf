package httpresponse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteResponseWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusCreated, map[string]string{"id": "g1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp Response[map[string]string]
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusCreated || resp.Body["id"] != "g1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestWriteErrorWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorWithStatus(rec, http.StatusConflict, "game is over")

	var resp Response[ErrorResponse]
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict || resp.Body.ErrorDescription != "game is over" {
		t.Fatalf("code = %d resp = %+v", rec.Code, resp)
	}
}

func TestUnencodableBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusOK, func() {})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}
