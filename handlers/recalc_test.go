package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRecalculateOrderTotals(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "recalculo")
	pt := seedProductType(db, est.ID, "Pizzas", false)
	stale := seedOrder(db, est, seedProduct(db, pt, "Margherita", "30.00"))
	seedOrder(db, est, seedProduct(db, pt, "Calabresa", "35.00"))
	db.Model(&models.Order{}).Where("id = ?", stale.ID).Update("total", decimal.Zero)
	_, token := seedAdmin(db)
	router := setupAdminRouter(db, newMockStorage())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/orders/recalculate", nil, token))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["total"] != 2.0 {
		t.Errorf("expected job over 2 orders, got %v", resp["total"])
	}
	jobID := resp["id"].(string)

	var job map[string]interface{}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("GET", "/api/admin/jobs/"+jobID, nil, token))
		job = parseResponse(w)
		if job["status"] == "completed" || job["status"] == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if job["status"] != "completed" {
		t.Fatalf("expected job completed, got %v", job)
	}
	if job["processed"] != 2.0 || job["changed"] != 1.0 || job["failed"] != 0.0 {
		t.Errorf("expected 2 processed, 1 changed, got %v", job)
	}

	var stored models.Order
	db.First(&stored, "id = ?", stale.ID)
	if !stored.Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected total restored to 30, got %s", stored.Total)
	}
}

func TestGetJobNotFound(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db)
	router := setupAdminRouter(db, newMockStorage())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/jobs/"+uuid.New().String(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
