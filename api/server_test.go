package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/barfgo/reil/api"
)

func TestHandleTranslateReturnsAssertions(t *testing.T) {
	s := api.NewServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{
		"sessionId":   "sess-1",
		"instruction": "add [DWORD 0x3, DWORD 0x5, DWORD t0_0]",
	})
	resp, err := srv.Client().Post(srv.URL+"/translate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /translate: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Assertions []string `json:"assertions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Assertions) != 1 {
		t.Fatalf("expected 1 assertion, got %d: %v", len(out.Assertions), out.Assertions)
	}
}

func TestHandleTranslateRejectsMalformedBody(t *testing.T) {
	s := api.NewServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/translate", "application/json", bytes.NewReader([]byte("not json")))
	if err != nil {
		t.Fatalf("POST /translate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleResetClearsSession(t *testing.T) {
	s := api.NewServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	translateBody, _ := json.Marshal(map[string]string{
		"sessionId":   "sess-2",
		"instruction": "str [DWORD 0x2a, EMPTY, DWORD rax_0]",
	})
	if _, err := srv.Client().Post(srv.URL+"/translate", "application/json", bytes.NewReader(translateBody)); err != nil {
		t.Fatalf("POST /translate: %v", err)
	}

	resetBody, _ := json.Marshal(map[string]string{"sessionId": "sess-2"})
	resp, err := srv.Client().Post(srv.URL+"/reset", "application/json", bytes.NewReader(resetBody))
	if err != nil {
		t.Fatalf("POST /reset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandleHealthReportsStatus(t *testing.T) {
	s := api.NewServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
