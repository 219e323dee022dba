package dataverse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Fetch_SendsHeaders(t *testing.T) {
	var gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Dataverse-key")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	c := NewClient("secret-token", 2)
	res := c.Fetch(context.Background(), server.URL)

	if !res.OK() {
		t.Fatalf("expected OK result, got %+v", res)
	}
	if gotKey != "secret-token" {
		t.Errorf("X-Dataverse-key = %q, want %q", gotKey, "secret-token")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_Fetch_NoTokenNoHeader(t *testing.T) {
	var sawKey bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawKey = r.Header["X-Dataverse-Key"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	NewClient("", 1).Fetch(context.Background(), server.URL)

	if sawKey {
		t.Error("tokenless client must not send X-Dataverse-key")
	}
}

func TestResult_OK(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want bool
	}{
		{"success", Result{StatusCode: 200, Body: []byte(`{"data":{}}`)}, true},
		{"empty body", Result{StatusCode: 200, Body: nil}, false},
		{"whitespace body", Result{StatusCode: 200, Body: []byte("  \n")}, false},
		{"null body", Result{StatusCode: 200, Body: []byte("null")}, false},
		{"http failure", Result{StatusCode: 404, Body: []byte(`{"status":"ERROR"}`)}, false},
		{"transport failure", Result{Err: errors.New("refused")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Fetch_TransportFailure(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := NewClient("", 1).Fetch(context.Background(), url)

	if res.Err == nil {
		t.Fatal("expected transport error")
	}
	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", res.StatusCode)
	}
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"status":"OK","data":{"id":7,"name":"Root"}}`))
		case "/missing":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	c := NewClient("", 4)

	var tree TreeResponse
	if err := c.GetJSON(context.Background(), server.URL+"/ok", &tree); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if tree.Data.ID != 7 || tree.Data.Name != "Root" {
		t.Errorf("decoded %+v, want id=7 name=Root", tree.Data)
	}

	err := c.GetJSON(context.Background(), server.URL+"/missing", &tree)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	err = c.GetJSON(context.Background(), server.URL+"/boom", &tree)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_Unauthenticated(t *testing.T) {
	c := NewClient("tok", 3)
	u := c.Unauthenticated()

	if u.Authenticated() {
		t.Error("Unauthenticated() client still reports a token")
	}
	if u.gate != c.gate {
		t.Error("downgraded client must share the original gate")
	}
}
