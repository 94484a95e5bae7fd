package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/auth"
	"github.com/dromero/quarryops-recon/internal/excel"
	"github.com/dromero/quarryops-recon/internal/http/middleware"
	"github.com/dromero/quarryops-recon/internal/model"
	"github.com/dromero/quarryops-recon/internal/pdf"
)

const testSecret = "test-secret"

type stubSaleReader struct{}

func (s *stubSaleReader) List(_ context.Context, _ model.SaleFilter) ([]model.Sale, error) {
	return nil, nil
}

func (s *stubSaleReader) GetByID(_ context.Context, _ uuid.UUID) (*model.Sale, error) {
	return nil, gorm.ErrRecordNotFound
}

func newTestRouter() *gin.Engine {
	parser := auth.NewParser(testSecret)
	handler := NewHandler(nil, &stubSaleReader{}, excel.NewGenerator(), pdf.NewGenerator(), zerolog.Nop())
	return NewRouter(handler, middleware.Auth(parser), prometheus.NewRegistry(), "test")
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  uuid.New().String(),
		"name": "Back Office",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestExportSalesRoleGate(t *testing.T) {
	router := newTestRouter()
	body := `{"period_start":"2026-03-01","period_end":"2026-03-31"}`

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", status: http.StatusUnauthorized},
		{name: "worker is rejected", token: signToken(t, string(model.RoleWorker)), status: http.StatusForbidden},
		{name: "supervisor exports", token: signToken(t, string(model.RoleSupervisor)), status: http.StatusOK},
		{name: "admin exports", token: signToken(t, string(model.RoleAdmin)), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/sales/export", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestSaleDocumentRoleGate(t *testing.T) {
	router := newTestRouter()
	target := "/sales/" + uuid.New().String() + "/document"

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, string(model.RoleWorker)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("worker status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Past the gate, an unknown sale is a plain not-found.
	req = httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, string(model.RoleAdmin)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
