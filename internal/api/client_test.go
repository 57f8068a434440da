package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
)

func testClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, auth.NewManagerWithToken(token))
}

func TestGetSendsBearerAndJSONHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "secret-token")
	resp, err := client.Get(context.Background(), "/v1/health/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestGetOmitsAuthorizationWithoutCredential(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "")
	resp, err := client.Get(context.Background(), "/v1/agents/")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if hadHeader {
		t.Errorf("Authorization header sent without credential: %q", gotAuth)
	}
	if resp.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", resp.StatusCode)
	}
}

func TestGetNonOKStatusIsNotATransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops"))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, "tok")
	resp, err := client.Get(context.Background(), "/v1/usage")
	if err != nil {
		t.Fatalf("Get returned error for 500 response: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if string(resp.Body) != "oops" {
		t.Errorf("Body = %q, want oops", resp.Body)
	}
}

func TestGetConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse subsequent connections

	client := testClient(t, srv.URL, "tok")
	_, err := client.Get(context.Background(), "/v1/health/")
	if err == nil {
		t.Fatal("expected transport error")
	}

	apiErr := output.AsError(err)
	if apiErr.Code != output.CodeNetwork {
		t.Errorf("error code = %q, want %q", apiErr.Code, output.CodeNetwork)
	}
}

func TestBuildURL(t *testing.T) {
	client := testClient(t, "https://api.example.com", "tok")

	tests := []struct {
		path string
		want string
	}{
		{"/v1/models/", "https://api.example.com/v1/models/"},
		{"v1/models/", "https://api.example.com/v1/models/"},
		{"/", "https://api.example.com/"},
	}
	for _, tt := range tests {
		if got := client.BuildURL(tt.path); got != tt.want {
			t.Errorf("BuildURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResponseJSON(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte(`{"a":1}`)}
	data, err := resp.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("JSON = %s", data)
	}

	// Empty body yields an empty object, not an error
	resp = &Response{StatusCode: 204, Body: nil}
	data, err = resp.JSON()
	if err != nil {
		t.Fatalf("JSON failed for empty body: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("JSON for empty body = %s, want {}", data)
	}

	// Non-JSON body is a parse error, not a crash
	resp = &Response{StatusCode: 200, Body: []byte("<html>hi</html>")}
	if _, err := resp.JSON(); err == nil {
		t.Fatal("expected parse error for HTML body")
	} else if output.AsError(err).Code != output.CodeParse {
		t.Errorf("error code = %q, want %q", output.AsError(err).Code, output.CodeParse)
	}
}

func TestResponseErrClassification(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{200, ""},
		{201, ""},
		{204, ""},
		{404, output.CodeNotFound},
		{401, output.CodeAuth},
		{500, output.CodeAPI},
		{403, output.CodeAPI},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.status, Body: []byte("body")}
		err := resp.Err()
		if tt.wantCode == "" {
			if err != nil {
				t.Errorf("status %d: unexpected error %v", tt.status, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
			continue
		}
		if got := output.AsError(err).Code; got != tt.wantCode {
			t.Errorf("status %d: code = %q, want %q", tt.status, got, tt.wantCode)
		}
	}
}

func TestResponseErrIncludesPreview(t *testing.T) {
	resp := &Response{StatusCode: 502, Body: []byte("bad gateway details")}
	err := resp.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad gateway details") {
		t.Errorf("error %q missing body preview", err.Error())
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q missing status code", err.Error())
	}
}

func TestBodyPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := BodyPreview([]byte(long))
	if len(got) > PreviewLimit+len("...") {
		t.Errorf("preview length = %d, want <= %d", len(got), PreviewLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview %q missing truncation indicator", got[len(got)-10:])
	}

	short := "short body"
	if got := BodyPreview([]byte(short)); got != short {
		t.Errorf("preview = %q, want %q unchanged", got, short)
	}
}

func TestBodyPreviewCollapsesWhitespace(t *testing.T) {
	got := BodyPreview([]byte("line one\n\t line two  \n"))
	if got != "line one line two" {
		t.Errorf("preview = %q", got)
	}
}
