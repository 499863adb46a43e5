package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
)

func TestServer_Endpoints(t *testing.T) {
	tests := []struct {
		name       string
		walletOK   bool
		path       string
		wantStatus int
	}{
		{name: "healthy", walletOK: true, path: "/health", wantStatus: http.StatusOK},
		{name: "degraded", walletOK: false, path: "/health", wantStatus: http.StatusServiceUnavailable},
		{name: "ready", walletOK: true, path: "/ready", wantStatus: http.StatusOK},
		{name: "not_ready", walletOK: false, path: "/ready", wantStatus: http.StatusServiceUnavailable},
		{name: "live_ignores_checks", walletOK: false, path: "/live", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(0, "test", logger.NewNop())
			s.RegisterCheck("store", StoreCheck(kvstore.NewMemory()))
			s.RegisterCheck("wallet", func(context.Context) (bool, string) {
				if tt.walletOK {
					return true, ""
				}
				return false, "not initialized"
			})

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestServer_HealthBody(t *testing.T) {
	s := NewServer(0, "v1.2.3", logger.NewNop())
	s.RegisterCheck("store", StoreCheck(kvstore.NewMemory()))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var st Status
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Status != "ok" || st.Version != "v1.2.3" || !st.Checks["store"].Healthy {
		t.Errorf("status = %+v", st)
	}
}
