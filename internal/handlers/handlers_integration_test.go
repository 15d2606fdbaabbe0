package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adib422/FarMacy/internal/handlers"
	"github.com/adib422/FarMacy/internal/middleware"
	"github.com/adib422/FarMacy/internal/models"
	"github.com/adib422/FarMacy/internal/repositories"
	"github.com/adib422/FarMacy/internal/services"
)

// setupApp builds the full Fiber app against a per-test in-memory SQLite
// database, wired the same way main does, minus the broker.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Medicine{},
		&models.Order{},
		&models.OrderItem{},
		&models.Prescription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	medicineRepo := repositories.NewGORMMedicineRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	prescriptionRepo := repositories.NewGORMPrescriptionRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	addressService := services.NewAddressService(addressRepo)
	medicineService := services.NewMedicineService(medicineRepo)
	orderService := services.NewOrderService(orderRepo, medicineRepo, addressRepo, nil)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, t.TempDir())

	authHandler := handlers.NewAuthHandler(authService)
	addressHandler := handlers.NewAddressHandler(addressService)
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	orderHandler := handlers.NewOrderHandler(orderService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	medicineHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	addressHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	prescriptionHandler.RegisterRoutes(protected)

	return app, db
}

// TestMain suppresses handler logging for cleaner test output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	assert.NoError(t, err)
	resp.Body.Close()
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func seedMedicines(t *testing.T, db *gorm.DB) []models.Medicine {
	t.Helper()

	medicines := []models.Medicine{
		{MedicineName: "Paracetamol 500mg", Brand: "Acme Pharma", MRP: 100, Category: "pain-relief", Popularity: 90},
		{MedicineName: "Ibuprofen 200mg", Brand: "Acme Pharma", MRP: 50, Category: "pain-relief", Popularity: 80},
		{MedicineName: "Vitamin D3", Brand: "Sunrise Labs", MRP: 200, Category: "vitamins", Popularity: 70},
	}
	for i := range medicines {
		if err := db.Create(&medicines[i]).Error; err != nil {
			t.Fatalf("failed to seed medicine: %v", err)
		}
	}
	return medicines
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    "auth@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// Duplicate registration conflicts.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    "auth@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "auth@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "auth@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/orders", "/api/v1/addresses", "/api/v1/users/profile", "/api/v1/prescriptions"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestProfileEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "profile@example.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "profile@example.com", user["email"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/v1/users/profile", token, map[string]string{
		"name":  "Renamed User",
		"phone": "9876543210",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "Renamed User", user["name"])

	// Password change with the wrong current password.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/users/change-password", token, map[string]string{
		"currentPassword": "nottherightone",
		"newPassword":     "evenbetterpassword",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/users/change-password", token, map[string]string{
		"currentPassword": "password123",
		"newPassword":     "evenbetterpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The new password works for login.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "profile@example.com",
		"password": "evenbetterpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddressEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "addresses@example.com")

	newAddress := map[string]interface{}{
		"first_name": "Asha",
		"last_name":  "Kumar",
		"phone":      "9876543210",
		"street":     "12 MG Road",
		"city":       "Mumbai",
		"state":      "Maharashtra",
		"zip_code":   "400001",
		"is_default": true,
	}
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/addresses", token, newAddress)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	created := body["address"].(map[string]interface{})
	assert.Equal(t, "India", created["country"])
	assert.Equal(t, true, created["is_default"])
	firstID := created["id"].(float64)

	// A second default demotes the first.
	newAddress["first_name"] = "Bina"
	newAddress["city"] = "Pune"
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/addresses", token, newAddress)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	secondID := body["address"].(map[string]interface{})["id"].(float64)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/addresses", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	addresses := body["addresses"].([]interface{})
	assert.Len(t, addresses, 2)

	defaults := 0
	for _, raw := range addresses {
		if raw.(map[string]interface{})["is_default"] == true {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	// Default first.
	assert.Equal(t, secondID, addresses[0].(map[string]interface{})["id"])

	// Update the first address.
	newAddress["first_name"] = "Asha"
	newAddress["city"] = "Nagpur"
	newAddress["is_default"] = false
	resp, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/addresses/%.0f", firstID), token, newAddress)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nagpur", body["address"].(map[string]interface{})["city"])

	// Updating a nonexistent address 404s.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/addresses/99999", token, newAddress)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete is idempotent.
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%.0f", firstID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%.0f", firstID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestOrderEndpoints(t *testing.T) {
	app, db := setupApp(t)
	token := registerAndLogin(t, app, "orders@example.com")
	medicines := seedMedicines(t, db)

	// Empty cart is rejected before any write.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No items in order", body["message"])

	// An unknown promo code is rejected, not silently ignored.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicines[0].ID, "quantity": 1},
		},
		"promoCode": "NOTACODE",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid promo code", body["message"])

	// Place an order: 2x100 + 1x50 = 250, fee 40, total 290.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicines[0].ID, "quantity": 2},
			{"medicine_id": medicines[1].ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	orderID := body["orderId"].(float64)
	assert.NotZero(t, orderID)

	// List with the pagination envelope.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/orders?page=1&limit=10", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	orders := body["orders"].([]interface{})
	assert.Len(t, orders, 1)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["page"])
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["totalPages"])

	// Detail carries the items and the pricing breakdown.
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%.0f", orderID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.EqualValues(t, 250, order["subtotal"])
	assert.EqualValues(t, 40, order["delivery_fee"])
	assert.EqualValues(t, 290, order["total"])
	assert.Len(t, order["items"].([]interface{}), 2)

	// Unknown order 404s.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/99999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Another user cannot see this order.
	otherToken := registerAndLogin(t, app, "voyeur@example.com")
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%.0f", orderID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Cancel succeeds once, then reports the state conflict.
	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/orders/%.0f/cancel", orderID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/orders/%.0f/cancel", orderID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot cancel order. Order is already being processed.", body["message"])
}

func TestMedicineEndpointsArePublic(t *testing.T) {
	app, db := setupApp(t)
	medicines := seedMedicines(t, db)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/medicines?page=1&limit=2", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["totalPages"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/medicines/search/paracetamol", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results := body["data"].([]interface{})
	assert.Len(t, results, 1)
	assert.Equal(t, "Paracetamol 500mg", results[0].(map[string]interface{})["medicine_name"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/medicines/%d", medicines[2].ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Vitamin D3", body["data"].(map[string]interface{})["medicine_name"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/medicines/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/medicines/featured/top?limit=2", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	featured := body["data"].([]interface{})
	assert.Len(t, featured, 2)
	// Most popular first.
	assert.Equal(t, "Paracetamol 500mg", featured[0].(map[string]interface{})["medicine_name"])
}

func uploadPrescription(t *testing.T, app *fiber.App, token, fileName string, content []byte) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("prescription", fileName)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var decoded map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

func TestPrescriptionEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "rx@example.com")

	resp, body := uploadPrescription(t, app, token, "scan.png", []byte("fake png bytes"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	prescription := body["prescription"].(map[string]interface{})
	assert.Equal(t, "scan.png", prescription["file_name"])

	resp, body = uploadPrescription(t, app, token, "malware.exe", []byte("nope"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/prescriptions", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["prescriptions"].([]interface{}), 1)
}
