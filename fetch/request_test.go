package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
)

func TestNewGet_EncodesQuery(t *testing.T) {
	req := NewGet("recaptcha", "verify", "https://www.google.com/recaptcha/api/siteverify?v=1", url.Values{
		"secret":   {"s3cr3t"},
		"response": {"tok en"},
	})

	httpReq, err := req.HTTPRequest(context.Background())
	if err != nil {
		t.Fatalf("HTTPRequest() error = %v", err)
	}
	if httpReq.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", httpReq.Method)
	}
	q := httpReq.URL.Query()
	if q.Get("secret") != "s3cr3t" || q.Get("response") != "tok en" || q.Get("v") != "1" {
		t.Errorf("query = %v", q)
	}
	if httpReq.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", httpReq.Header.Get("Accept"))
	}
}

func TestNewPostForm_EncodesBody(t *testing.T) {
	req := NewPostForm("token", "fetch", "https://login.example.com/services/oauth2/token", url.Values{
		"grant_type": {"password"},
		"username":   {"api@example.com"},
	})

	httpReq, err := req.HTTPRequest(context.Background())
	if err != nil {
		t.Fatalf("HTTPRequest() error = %v", err)
	}
	if httpReq.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", httpReq.Method)
	}
	if ct := httpReq.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(httpReq.Body)
	form, err := url.ParseQuery(string(body))
	if err != nil {
		t.Fatal(err)
	}
	if form.Get("grant_type") != "password" || form.Get("username") != "api@example.com" {
		t.Errorf("form = %v", form)
	}
	if httpReq.URL.RawQuery != "" {
		t.Errorf("RawQuery = %q, want empty for POST", httpReq.URL.RawQuery)
	}
}

func TestRequest_EndpointStripsSecrets(t *testing.T) {
	req := NewGet("zerobounce", "validate", "https://user:pw@api.zerobounce.net/v2/validate?api_key=k", nil)
	if got := req.Endpoint(); got != "https://api.zerobounce.net/v2/validate" {
		t.Errorf("Endpoint() = %q", got)
	}
	meta := req.Meta()
	if meta.Service != "zerobounce" || meta.Operation != "validate" || meta.Endpoint != "https://api.zerobounce.net/v2/validate" {
		t.Errorf("Meta() = %+v", meta)
	}
}

func TestRequest_InvalidURL(t *testing.T) {
	req := NewGet("x", "", "://bad", nil)
	if _, err := req.HTTPRequest(context.Background()); err == nil {
		t.Error("HTTPRequest() error = nil, want error for invalid URL")
	}
}

func TestNewPostJSON_SendsRawBody(t *testing.T) {
	req := NewPostJSON("lead", "submit", "https://api.example.com/lead", []byte(`{"Email":"a@b.example"}`))
	httpReq, err := req.HTTPRequest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ct := httpReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(httpReq.Body)
	if string(body) != `{"Email":"a@b.example"}` {
		t.Errorf("body = %q", body)
	}
}
