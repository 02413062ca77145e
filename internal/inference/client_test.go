package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type noopMetrics struct{}

func (noopMetrics) RecordExternalStatus(string, int)            {}
func (noopMetrics) RecordExternalLatency(string, time.Duration) {}

func TestConfigured(t *testing.T) {
	if NewClient(http.DefaultClient, "", noopMetrics{}).Configured() {
		t.Error("client with empty base URL reports configured")
	}
	if !NewClient(http.DefaultClient, "http://inference:5000", noopMetrics{}).Configured() {
		t.Error("client with base URL reports not configured")
	}
}

func TestPredictDisease_RelaysPayloadAndResponse(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"disease":"Migraine","confidence":0.91}`))
	}))
	defer srv.Close()

	c := NewClient(http.DefaultClient, srv.URL, noopMetrics{})

	out, err := c.PredictDisease(context.Background(), json.RawMessage(`{"symptoms":["headache"]}`))
	if err != nil {
		t.Fatalf("PredictDisease returned error: %v", err)
	}

	if gotPath != "/api/disease" {
		t.Errorf("path = %q, want /api/disease", gotPath)
	}
	if gotBody != `{"symptoms":["headache"]}` {
		t.Errorf("forwarded body = %q", gotBody)
	}
	if string(out) != `{"disease":"Migraine","confidence":0.91}` {
		t.Errorf("relayed response = %q", out)
	}
}

func TestAnalyzeMRI_SendsMultipartFile(t *testing.T) {
	var gotPath, gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		gotFilename = header.Filename
		b, _ := io.ReadAll(file)
		gotContent = string(b)

		w.Write([]byte(`{"result":"no anomaly"}`))
	}))
	defer srv.Close()

	c := NewClient(http.DefaultClient, srv.URL, noopMetrics{})

	out, err := c.AnalyzeMRI(context.Background(), "scan.png", bytes.NewReader([]byte("fake-pixels")))
	if err != nil {
		t.Fatalf("AnalyzeMRI returned error: %v", err)
	}

	if gotPath != "/api/predict" {
		t.Errorf("path = %q, want /api/predict", gotPath)
	}
	if gotFilename != "scan.png" {
		t.Errorf("filename = %q, want scan.png", gotFilename)
	}
	if gotContent != "fake-pixels" {
		t.Errorf("file content = %q", gotContent)
	}
	if string(out) != `{"result":"no anomaly"}` {
		t.Errorf("relayed response = %q", out)
	}
}

func TestRelay_Non200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(http.DefaultClient, srv.URL, noopMetrics{})

	if _, err := c.PredictDisease(context.Background(), json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error on 503 from inference service")
	}
}

func TestUnconfiguredClientRefuses(t *testing.T) {
	c := NewClient(http.DefaultClient, "", noopMetrics{})

	if _, err := c.PredictDisease(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("PredictDisease: got %v, want ErrNotConfigured", err)
	}
	if _, err := c.AnalyzeMRI(context.Background(), "scan.png", bytes.NewReader(nil)); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("AnalyzeMRI: got %v, want ErrNotConfigured", err)
	}
}
