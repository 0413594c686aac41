package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-backend/models"
)

func TestGetDashboard(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "painel")
	other := seedEstablishment(db, "painel-outra")
	pt := seedProductType(db, est.ID, "Pizzas", false)
	pizza := seedProduct(db, pt, "Margherita", "30.00")
	burger := seedProduct(db, pt, "Burger", "20.00")

	seedOrder(db, est, pizza)
	preparing := seedOrder(db, est, burger)
	db.Model(&preparing).Update("status", models.OrderStatusPreparing)
	cancelled := seedOrder(db, est, pizza)
	db.Model(&cancelled).Update("status", models.OrderStatusCancelled)
	seedOrder(db, other, seedProduct(db, seedProductType(db, other.ID, "X", false), "Z", "99.00"))

	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/dashboard", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)

	counts := resp["orders_by_status"].(map[string]interface{})
	want := map[string]float64{"pending": 1, "preparing": 1, "cancelled": 1, "ready": 0, "delivering": 0, "completed": 0}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("%s: expected %v, got %v", status, n, counts[status])
		}
	}
	if resp["today_orders"] != 2.0 {
		t.Errorf("expected 2 orders today, got %v", resp["today_orders"])
	}
	if resp["today_revenue"] != 50.0 {
		t.Errorf("expected revenue 50 without cancelled orders, got %v", resp["today_revenue"])
	}
	if resp["average_ticket"] != 25.0 {
		t.Errorf("expected average 25, got %v", resp["average_ticket"])
	}
}

func TestGetDashboardAdminFilter(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "painel-admin")
	other := seedEstablishment(db, "painel-admin-outra")
	seedOrder(db, est, seedProduct(db, seedProductType(db, est.ID, "X", false), "A", "10.00"))
	seedOrder(db, other, seedProduct(db, seedProductType(db, other.ID, "X", false), "B", "10.00"))
	_, token := seedAdmin(db)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/dashboard", nil, token))
	if resp := parseResponse(w); resp["today_orders"] != 2.0 {
		t.Errorf("admin without filter: expected 2 orders, got %v", resp["today_orders"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/dashboard?establishment_id="+est.ID.String(), nil, token))
	if resp := parseResponse(w); resp["today_orders"] != 1.0 {
		t.Errorf("admin filtered: expected 1 order, got %v", resp["today_orders"])
	}
}
