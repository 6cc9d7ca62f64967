package plantid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plant-identification-service/models"
)

var testImage = []byte("fake jpeg bytes")

func TestAssessHealth(t *testing.T) {
	var gotPath, gotAPIKey, gotDetails, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotDetails = r.URL.Query().Get("details")
		gotAPIKey = r.Header.Get("Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"disease": {"suggestions": []}}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 5*time.Second)
	raw, err := client.AssessHealth(context.Background(), testImage)
	if err != nil {
		t.Fatalf("AssessHealth() error = %v", err)
	}

	if gotPath != "/identification" {
		t.Errorf("path = %q, want %q", gotPath, "/identification")
	}
	if gotAPIKey != "test-key" {
		t.Errorf("Api-Key header = %q, want %q", gotAPIKey, "test-key")
	}
	if gotDetails != detailFields {
		t.Errorf("details query = %q, want %q", gotDetails, detailFields)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}

	var req healthRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if req.Health != "only" {
		t.Errorf("health = %q, want %q", req.Health, "only")
	}
	if len(req.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(req.Images))
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Images[0])
	if err != nil {
		t.Fatalf("image is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, testImage) {
		t.Errorf("decoded image = %q, want %q", decoded, testImage)
	}
	if string(raw) != `{"result": {"disease": {"suggestions": []}}}` {
		t.Errorf("raw response = %q", raw)
	}
}

func TestAssessHealthAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL, 5*time.Second)
	_, err := client.AssessHealth(context.Background(), testImage)
	if err == nil {
		t.Fatal("AssessHealth() error = nil, want ProviderError")
	}

	var pe *models.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("AssessHealth() returned %T, want ProviderError", err)
	}
	if pe.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", pe.StatusCode)
	}
	if pe.Message != "invalid api key" {
		t.Errorf("Message = %q, want %q", pe.Message, "invalid api key")
	}
}

func TestAssessHealthTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test-key", server.URL, 5*time.Second)
	_, err := client.AssessHealth(context.Background(), testImage)
	if err == nil {
		t.Fatal("AssessHealth() error = nil, want transport ProviderError")
	}

	var pe *models.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("AssessHealth() returned %T, want ProviderError", err)
	}
	if pe.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", pe.StatusCode)
	}
}
