package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	Mode  string  `json:"mode" default:"position" validate:"oneof=position spot"`
	Short int     `json:"short" default:"20" validate:"gte=1"`
	Long  int     `json:"long" default:"50" validate:"gtfield=Short"`
	Fee   float64 `json:"fee" default:"10" validate:"gte=0"`
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	var req sampleRequest
	if errs := ReadAndValidateRequest(newContext(`{"short": 5, "fee": 0}`), &req); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if req.Mode != "position" || req.Short != 5 || req.Long != 50 {
		t.Fatalf("req = %+v", req)
	}
	if req.Fee != 0 {
		t.Fatalf("explicit zero fee overwritten: %v", req.Fee)
	}
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	var req sampleRequest
	list := ReadAndValidateRequest(newContext(`{"mode": "margin", "short": 60}`), &req)
	if len(list) != 2 {
		t.Fatalf("errs = %#v", list)
	}
	if list[0].Code != "ERR_ONEOF" || list[1].Code != "ERR_GTFIELD" {
		t.Fatalf("codes = %s, %s", list[0].Code, list[1].Code)
	}
	if list[0].Field != "mode" || list[1].Field != "long" {
		t.Fatalf("fields = %s, %s", list[0].Field, list[1].Field)
	}
	if got := list[1].Params["field"]; got != "Short" {
		t.Fatalf("gtfield param = %v", got)
	}
}

func TestReadAndValidateRequestMalformed(t *testing.T) {
	var req sampleRequest
	list := ReadAndValidateRequest(newContext(`{"short": "x"`), &req)
	if len(list) != 1 || list[0].Code != "ERR_MALFORMED" {
		t.Fatalf("errs = %#v", list)
	}
}

func TestErrorMapper(t *testing.T) {
	errBusy := errors.New("busy")
	m := (&ErrorMapper{}).Map(errBusy, http.StatusConflict)

	cases := []struct {
		err  error
		want int
		code string
	}{
		{fmt.Errorf("run: %w", errBusy), http.StatusConflict, "ERR_CONFLICT"},
		{fmt.Errorf("run: %w", context.Canceled), http.StatusServiceUnavailable, "ERR_UNAVAILABLE"},
		{BadRequestError("nope"), http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		got := m.Resolve(tc.err)
		if got.Status != tc.want || got.Code != tc.code {
			t.Fatalf("%v: got %d %s", tc.err, got.Status, got.Code)
		}
	}
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := AppErrorResponse(c, UnprocessableError("not enough data")); err != nil {
		t.Fatalf("AppErrorResponse: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status int `json:"status"`
		Data   []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != 422 || len(body.Data) != 1 || body.Data[0].Code != "ERR_UNPROCESSABLE" {
		t.Fatalf("body = %+v", body)
	}
}
