package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		health     map[string]bool
		wantStatus string
	}{
		{
			name:       "нет данных",
			health:     map[string]bool{},
			wantStatus: "fail",
		},
		{
			name:       "backend доступен",
			health:     map[string]bool{"session-backend:backend:443": true},
			wantStatus: "ok",
		},
		{
			name:       "backend недоступен",
			health:     map[string]bool{"session-backend:backend:443": false},
			wantStatus: "fail",
		},
		{
			name: "один из endpoint'ов недоступен",
			health: map[string]bool{
				"session-backend:backend-a:443": true,
				"session-backend:backend-b:443": false,
			},
			wantStatus: "fail",
		},
		{
			name:       "чужая зависимость не учитывается",
			health:     map[string]bool{"session-backend-legacy:x:80": true},
			wantStatus: "fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := readiness(tt.health, BackendDependency)
			if status != tt.wantStatus {
				t.Errorf("readiness() = %q, ожидалось %q", status, tt.wantStatus)
			}
		})
	}
}

func TestNewDephealthServiceWithRegisterer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ds, err := NewDephealthServiceWithRegisterer(
		"admin-console", "admin-console",
		"http://backend.kryukov.lan:8080", "/api/session",
		15*time.Second, logger, prometheus.NewRegistry(),
	)
	if err != nil {
		t.Fatalf("NewDephealthServiceWithRegisterer: %v", err)
	}

	if status, _ := ds.CheckReady(); status != "fail" {
		t.Errorf("CheckReady() до запуска = %q, ожидалось fail", status)
	}
}
