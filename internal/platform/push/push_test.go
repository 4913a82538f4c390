package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendReportsDelivery(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	sent := 0
	client := NewClient(ts.URL, "server-key")
	client.OnSent = func() { sent++ }

	if err := client.Send(context.Background(), "device-1", "title", "body"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sent != 1 {
		t.Fatalf("OnSent calls = %d, want 1", sent)
	}
	if gotAuth != "key=server-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestClientSendFailureDoesNotCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unregistered token", http.StatusBadRequest)
	}))
	defer ts.Close()

	sent := 0
	client := NewClient(ts.URL, "server-key")
	client.OnSent = func() { sent++ }

	if err := client.Send(context.Background(), "device-1", "title", "body"); err == nil {
		t.Fatal("expected an error for a rejected delivery")
	}
	if sent != 0 {
		t.Fatalf("OnSent calls = %d, want 0", sent)
	}
}
