package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-backend/firebase"
	"delivery-backend/models"

	"github.com/google/uuid"
)

// ==================== Product Types ====================

func TestCreateProductTypeInactive(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "tipos")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/types", map[string]interface{}{
		"name":         "Pizzas",
		"accepts_size": true,
		"is_active":    false,
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["establishment_id"] != est.ID.String() {
		t.Errorf("staff writes to own establishment, got %v", resp["establishment_id"])
	}

	var stored models.ProductType
	db.First(&stored, "id = ?", resp["id"])
	if stored.IsActive || !stored.AcceptsSize {
		t.Errorf("expected inactive type accepting sizes, got %+v", stored)
	}
}

func TestCreateProductTypeAdminNeedsEstablishment(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "tipos-admin")
	_, token := seedAdmin(db)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/types", map[string]interface{}{"name": "Bebidas"}, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without establishment_id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/types", map[string]interface{}{
		"name":             "Bebidas",
		"establishment_id": uuid.New().String(),
	}, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown establishment, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/types", map[string]interface{}{
		"name":             "Bebidas",
		"establishment_id": est.ID.String(),
	}, token))
	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductTypesScopedToEstablishment(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "escopo")
	other := seedEstablishment(db, "escopo-outra")
	seedProductType(db, est.ID, "Lanches", false)
	foreign := seedProductType(db, other.ID, "Sushi", false)
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/types", nil, token))
	if types := parseResponseArray(w); len(types) != 1 {
		t.Errorf("expected 1 type, got %d", len(types))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/types/"+foreign.ID.String(), map[string]interface{}{"name": "Meu"}, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign type, got %d", w.Code)
	}
}

// ==================== Addons ====================

func TestCreateAddon(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "adicionais")
	other := seedEstablishment(db, "adicionais-outra")
	pt := seedProductType(db, est.ID, "Pizzas", true)
	foreign := seedProductType(db, other.ID, "Pizzas", true)
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"valid", map[string]interface{}{"type_id": pt.ID.String(), "name": "Bacon", "price": 4.5}, http.StatusCreated},
		{"negative price", map[string]interface{}{"type_id": pt.ID.String(), "name": "Bacon", "price": -1}, http.StatusBadRequest},
		{"foreign type", map[string]interface{}{"type_id": foreign.ID.String(), "name": "Bacon", "price": 1}, http.StatusBadRequest},
		{"missing name", map[string]interface{}{"type_id": pt.ID.String(), "price": 1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authRequest("POST", "/api/addons", tt.body, token))
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	var count int64
	db.Model(&models.Addon{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 addon stored, got %d", count)
	}
}

func TestGetAddonsFiltersByType(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "filtro")
	other := seedEstablishment(db, "filtro-outra")
	pizzas := seedProductType(db, est.ID, "Pizzas", true)
	burgers := seedProductType(db, est.ID, "Lanches", false)
	seedAddon(db, pizzas.ID, "Catupiry", "5.00")
	seedAddon(db, burgers.ID, "Cheddar", "3.00")
	seedAddon(db, seedProductType(db, other.ID, "X", false).ID, "Ovo", "2.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/addons", nil, token))
	if addons := parseResponseArray(w); len(addons) != 2 {
		t.Errorf("expected 2 addons, got %d", len(addons))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/addons?type_id="+pizzas.ID.String(), nil, token))
	addons := parseResponseArray(w)
	if len(addons) != 1 || addons[0].(map[string]interface{})["name"] != "Catupiry" {
		t.Errorf("expected only Catupiry, got %v", addons)
	}
}

// ==================== Products ====================

func TestCreateProductWithSizesAndImage(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "produtos")
	pt := seedProductType(db, est.ID, "Pizzas", true)
	_, token := seedStaff(db, est)
	storage := newMockStorage()
	router := setupStaffRouter(db, storage, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/products", map[string]string{
		"name":    "Calabresa",
		"price":   "32,90",
		"type_id": pt.ID.String(),
		"sizes":   `[{"name":"Broto","price":25},{"name":"Grande","price":45}]`,
	}, map[string]string{"image": "calabresa.jpg"}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["price"] != 32.9 {
		t.Errorf("expected price 32.9, got %v", resp["price"])
	}
	if sizes := resp["sizes"].([]interface{}); len(sizes) != 2 {
		t.Errorf("expected 2 sizes, got %d", len(sizes))
	}
	if resp["image_url"] != "https://storage.googleapis.com/test-bucket/products/calabresa.jpg" {
		t.Errorf("unexpected image_url %v", resp["image_url"])
	}
	if len(storage.UploadFolders) != 1 || storage.UploadFolders[0] != firebase.FolderProducts {
		t.Errorf("expected upload to products folder, got %v", storage.UploadFolders)
	}
}

func TestCreateProductDropsSizesForPlainType(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "simples")
	pt := seedProductType(db, est.ID, "Bebidas", false)
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/products", map[string]string{
		"name":    "Refrigerante",
		"price":   "6",
		"type_id": pt.ID.String(),
		"sizes":   `[{"name":"Lata","price":6}]`,
	}, nil, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.ProductSize{}).Count(&count)
	if count != 0 {
		t.Errorf("expected sizes ignored, found %d", count)
	}
}

func TestCreateProductRejections(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "rejeicoes")
	other := seedEstablishment(db, "rejeicoes-outra")
	pt := seedProductType(db, est.ID, "Pizzas", true)
	foreign := seedProductType(db, other.ID, "Pizzas", true)
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	tests := []struct {
		name   string
		fields map[string]string
		pdf    bool
	}{
		{"missing name", map[string]string{"price": "10", "type_id": pt.ID.String()}, false},
		{"negative price", map[string]string{"name": "X", "price": "-1", "type_id": pt.ID.String()}, false},
		{"foreign type", map[string]string{"name": "X", "price": "10", "type_id": foreign.ID.String()}, false},
		{"bad sizes", map[string]string{"name": "X", "price": "10", "type_id": pt.ID.String(), "sizes": "{"}, false},
		{"bad image", map[string]string{"name": "X", "price": "10", "type_id": pt.ID.String()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.pdf {
				req = pdfUpload(t, tt.fields, token)
			} else {
				req = multipartRequest("POST", "/api/products", tt.fields, nil, token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// pdfUpload builds a product form whose image part is not an image.
func pdfUpload(t *testing.T, fields map[string]string, token string) *http.Request {
	t.Helper()
	req := multipartRequest("POST", "/api/products", fields, map[string]string{"image": "doc.pdf"}, token)
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	req.MultipartForm.File["image"][0].Header.Set("Content-Type", "application/pdf")
	return req
}

func TestUpdateProductReplacesImageAndSizes(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "atualiza")
	pt := seedProductType(db, est.ID, "Pizzas", true)
	product := seedProduct(db, pt, "Portuguesa", "30.00")
	seedSize(db, product.ID, "Broto", "22.00")
	seedSize(db, product.ID, "Grande", "44.00")
	db.Model(&product).Update("image_url", "https://storage.googleapis.com/test-bucket/products/old.jpg")
	_, token := seedStaff(db, est)
	storage := newMockStorage()
	router := setupStaffRouter(db, storage, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("PUT", "/api/products/"+product.ID.String(), map[string]string{
		"name":  "Portuguesa Especial",
		"sizes": `[{"name":"Media","price":35}]`,
	}, map[string]string{"image": "new.jpg"}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["name"] != "Portuguesa Especial" || resp["price"] != 30.0 {
		t.Errorf("expected name changed and price kept, got %v / %v", resp["name"], resp["price"])
	}

	var sizes []models.ProductSize
	db.Where("product_id = ?", product.ID).Find(&sizes)
	if len(sizes) != 1 || sizes[0].Name != "Media" {
		t.Errorf("expected sizes replaced by Media, got %+v", sizes)
	}
	if len(storage.DeleteFileCalls) != 1 || storage.DeleteFileCalls[0] != "products/old.jpg" {
		t.Errorf("expected old image deleted, got %v", storage.DeleteFileCalls)
	}
}

func TestUpdateProductKeepsSizesWhenNotSent(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "mantem")
	pt := seedProductType(db, est.ID, "Pizzas", true)
	product := seedProduct(db, pt, "Atum", "30.00")
	seedSize(db, product.ID, "Grande", "44.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("PUT", "/api/products/"+product.ID.String(), map[string]string{"price": "31.50"}, nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.ProductSize{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected size kept, found %d", count)
	}
}

func TestGetProductOtherEstablishment(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "meu")
	other := seedEstablishment(db, "deles")
	product := seedProduct(db, seedProductType(db, other.ID, "X", false), "Secreto", "1.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/products/"+product.ID.String(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

// ==================== Promotions ====================

func TestCreatePromotionWithCollections(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "promo")
	pt := seedProductType(db, est.ID, "Pizzas", false)
	pizza := seedProduct(db, pt, "Mussarela", "30.00")
	soda := seedProduct(db, pt, "Refri", "8.00")
	juice := seedProduct(db, pt, "Suco", "9.00")
	_, token := seedStaff(db, est)
	storage := newMockStorage()
	router := setupStaffRouter(db, storage, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/promotions", map[string]string{
		"name":        "Combo",
		"price":       "35.00",
		"fixed_items": fmt.Sprintf(`[{"product_id":"%s","quantity":1}]`, pizza.ID),
		"groups":      fmt.Sprintf(`[{"name":"Bebida","selectable":1,"product_ids":["%s","%s"]}]`, soda.ID, juice.ID),
	}, map[string]string{"image": "combo.png"}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["price"] != 35.0 {
		t.Errorf("expected price 35, got %v", resp["price"])
	}
	items := resp["fixed_items"].([]interface{})
	if len(items) != 1 || items[0].(map[string]interface{})["product"] == nil {
		t.Errorf("expected one fixed item with product, got %v", items)
	}
	groups := resp["groups"].([]interface{})
	if len(groups) != 1 || len(groups[0].(map[string]interface{})["products"].([]interface{})) != 2 {
		t.Errorf("expected one group with 2 products, got %v", groups)
	}
	if len(storage.UploadFolders) != 1 || storage.UploadFolders[0] != firebase.FolderPromotions {
		t.Errorf("expected upload to promotions folder, got %v", storage.UploadFolders)
	}
}

func TestCreatePromotionRejections(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "promo-ruim")
	other := seedEstablishment(db, "promo-outra")
	foreign := seedProduct(db, seedProductType(db, other.ID, "X", false), "Deles", "5.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing name", map[string]string{"price": "10"}},
		{"empty group", map[string]string{"name": "Combo", "groups": `[{"name":"Bebida","product_ids":[]}]`}},
		{"foreign product", map[string]string{"name": "Combo", "fixed_items": fmt.Sprintf(`[{"product_id":"%s"}]`, foreign.ID)}},
		{"bad json", map[string]string{"name": "Combo", "groups": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest("POST", "/api/promotions", tt.fields, nil, token))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdatePromotionReplacesGroups(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "promo-edita")
	pt := seedProductType(db, est.ID, "Pizzas", false)
	soda := seedProduct(db, pt, "Refri", "8.00")
	juice := seedProduct(db, pt, "Suco", "9.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("POST", "/api/promotions", map[string]string{
		"name":   "Combo",
		"groups": fmt.Sprintf(`[{"name":"Bebida","product_ids":["%s","%s"]}]`, soda.ID, juice.ID),
	}, nil, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	id := parseResponse(w)["id"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest("PUT", "/api/promotions/"+id, map[string]string{
		"groups": fmt.Sprintf(`[{"name":"Suco","product_ids":["%s"]}]`, juice.ID),
	}, nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	groups := parseResponse(w)["groups"].([]interface{})
	if len(groups) != 1 || groups[0].(map[string]interface{})["name"] != "Suco" {
		t.Fatalf("expected only group Suco, got %v", groups)
	}
	var links int64
	db.Table("promotion_group_products").Count(&links)
	if links != 1 {
		t.Errorf("expected old group links cleared, found %d", links)
	}
}

// ==================== Toggle ====================

func TestToggleActive(t *testing.T) {
	db := freshDB()
	est := seedEstablishment(db, "toggle")
	other := seedEstablishment(db, "toggle-outra")
	pt := seedProductType(db, est.ID, "Pizzas", false)
	product := seedProduct(db, pt, "Napolitana", "30.00")
	addon := seedAddon(db, pt.ID, "Alho", "2.00")
	foreign := seedProduct(db, seedProductType(db, other.ID, "X", false), "Deles", "1.00")
	_, token := seedStaff(db, est)
	router := setupStaffRouter(db, newMockStorage(), nil)

	for _, path := range []string{
		"/api/toggle-active/product/" + product.ID.String(),
		"/api/toggle-active/type/" + pt.ID.String(),
		"/api/toggle-active/addon/" + addon.ID.String(),
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("POST", path, nil, token))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d: %s", path, w.Code, w.Body.String())
		}
		if parseResponse(w)["is_active"] != false {
			t.Errorf("%s: expected deactivated", path)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/toggle-active/product/"+product.ID.String(), nil, token))
	if parseResponse(w)["is_active"] != true {
		t.Error("expected product reactivated on second toggle")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/toggle-active/product/"+foreign.ID.String(), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign product, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/toggle-active/client/"+product.ID.String(), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown model, got %d", w.Code)
	}
}
