package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`"12,5"`, 12.5},
		{`" 7 "`, 7},
		{`"-3,25"`, -3.25},
		{`"abc"`, 0},
		{`""`, 0},
		{`true`, 0},
		{`null`, 0},
		{`{"x":1}`, 0},
	}
	for _, tt := range tests {
		var v struct {
			A Amount `json:"a"`
		}
		if err := json.Unmarshal([]byte(`{"a":`+tt.in+`}`), &v); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if v.A.Float() != tt.want {
			t.Errorf("%s: got %v, want %v", tt.in, v.A, tt.want)
		}
	}
}

func TestOptionalAmount(t *testing.T) {
	var req incomeRequest
	if err := json.Unmarshal([]byte(`{"sammia":"10,5"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.Samuel.floatPtr() != nil || req.Others.floatPtr() != nil {
		t.Fatalf("absent fields must stay nil")
	}
	if p := req.Sammia.floatPtr(); p == nil || *p != 10.5 {
		t.Fatalf("sammia = %v", p)
	}
}

func TestPathInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetPathValue("year", "2026")
	r.SetPathValue("month", "x")

	if v, err := pathInt(r, "year"); err != nil || v != 2026 {
		t.Fatalf("year = %d err=%v", v, err)
	}
	if _, _, err := yearMonth(r); !errors.Is(err, errBadRequest) {
		t.Fatalf("expected errBadRequest, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		body    string
		wantErr bool
	}{
		{`{"name":"Luz"}`, false},
		{``, true},
		{`{"name":`, true},
		{`{"name":"a"} {"name":"b"}`, true},
		{`{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}
	for i, tt := range tests {
		var v billRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		err := decodeJSON(httptest.NewRecorder(), r, &v)
		if (err != nil) != tt.wantErr {
			t.Fatalf("case %d: err=%v wantErr=%v", i, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errBadRequest) {
			t.Fatalf("case %d: error not marked as bad request: %v", i, err)
		}
	}
}
