package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSendAndParseDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("missing query param, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("X-Key") != "secret" {
			t.Errorf("missing header")
		}
		_, _ = w.Write([]byte(`{"price":"189.98"}`))
	}))
	defer srv.Close()

	var out struct {
		Price string `json:"price"`
	}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL,
		Headers:     map[string]string{"X-Key": "secret"},
		QueryParams: map[string][]string{"symbol": {"AAPL"}},
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Price != "189.98" {
		t.Fatalf("unexpected price %q", out.Price)
	}
}

func TestSendAndParseStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests || se.Body != "slow down" {
		t.Fatalf("unexpected status error %+v", se)
	}
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Level string `json:"level" default:"low" validate:"oneof=low high"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	var ok sampleRequest
	if errs := ReadAndValidateRequest(c, &ok); errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if ok.Level != "low" {
		t.Fatalf("default not applied, got %q", ok.Level)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"level":"mid"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	var bad sampleRequest
	errs := ReadAndValidateRequest(c, &bad)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %+v", errs)
	}
	if errs[0].Field != "name" || errs[0].Code != "ERR_REQUIRED" {
		t.Fatalf("unexpected first error %+v", errs[0])
	}
	if errs[1].Field != "level" || errs[1].Code != "ERR_ONEOF" {
		t.Fatalf("unexpected second error %+v", errs[1])
	}
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := InternalError("Failed to fetch market overview").WithError(errors.New("upstream down"))
	if herr := AppErrorResponse(c, err); herr != nil {
		t.Fatalf("unexpected error: %v", herr)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Failed to fetch market overview" || body.Error != "upstream down" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestServerHealthz(t *testing.T) {
	s := NewServer(nil, WithMetricsPath(""))
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
