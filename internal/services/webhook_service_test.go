package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"caishen/internal/testutil"
)

func TestSendText(t *testing.T) {
	var received textPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewWebhookService()
	err := svc.SendText(context.Background(), server.URL, "📅 资产日报 2024-01-03")
	testutil.AssertNoError(t, err)

	if received.MsgType != "text" {
		t.Errorf("msgtype = %q", received.MsgType)
	}
	if received.Text.Content != "📅 资产日报 2024-01-03" {
		t.Errorf("content = %q", received.Text.Content)
	}
}

func TestSendTextNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if err := NewWebhookService().SendText(context.Background(), server.URL, "x"); err == nil {
		t.Error("expected an error on a 403 response")
	}
}

func TestSendTextConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	if err := NewWebhookService().SendText(context.Background(), server.URL, "x"); err == nil {
		t.Error("expected an error when the endpoint is down")
	}
}
