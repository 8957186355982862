package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthReportsCounters(t *testing.T) {
	deps := newTestDeps()
	deps.Room.Join("conn-1", "Alice")
	deps.Room.Join("conn-2", "Bob")

	handler := HandleHealth(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.OnlineUsers != 2 {
		t.Errorf("online users = %d, want 2", health.OnlineUsers)
	}
	// Each join appends one welcome event.
	if health.HistoryCount != 2 {
		t.Errorf("history count = %d, want 2", health.HistoryCount)
	}
	if _, err := time.Parse(time.RFC3339, health.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", health.Timestamp, err)
	}
}

func TestHealthOnEmptyRoom(t *testing.T) {
	deps := newTestDeps()
	handler := HandleHealth(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.OnlineUsers != 0 || health.HistoryCount != 0 {
		t.Errorf("fresh room counters = %+v, want zeros", health)
	}
}
