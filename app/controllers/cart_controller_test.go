package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/auth"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/middleware"
	"github.com/zaikahq/zaika/pkg/router"
)

var dbSeq int64

type outcomeBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func newCartServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:cartctl%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.CartItem{}))

	ctl := NewCartController(services.NewCartService(db))

	r := router.New()
	cart := r.Group("/api/cart", middleware.Auth)
	cart.Get("/", "cart.list", ctx.Wrap(ctl.List))
	cart.Post("/", "cart.add", ctx.Wrap(ctl.Add))
	cart.Get("/{id}/increment", "cart.increment", ctx.Wrap(ctl.Increment))
	cart.Get("/{id}/decrement", "cart.decrement", ctx.Wrap(ctl.Decrement))
	cart.Delete("/{id}", "cart.remove", ctx.Wrap(ctl.Remove))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, db
}

func seedCartProduct(t *testing.T, db *gorm.DB, qty int) models.Product {
	t.Helper()

	cat := models.Category{Name: fmt.Sprintf("Mains %d", atomic.AddInt64(&dbSeq, 1))}
	require.NoError(t, db.Create(&cat).Error)

	p := models.Product{Name: "Biryani", Price: 340, Quantity: qty, CategoryID: cat.ID}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeOutcome(t *testing.T, resp *http.Response) outcomeBody {
	t.Helper()
	var out outcomeBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func userToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, models.RoleUser)
	require.NoError(t, err)
	return token
}

func TestCartRequiresAuth(t *testing.T) {
	srv, _ := newCartServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddOutcomeCodes(t *testing.T) {
	srv, db := newCartServer(t)
	p := seedCartProduct(t, db, 2)
	token := userToken(t, 1)

	body := fmt.Sprintf(`{"product_id": %d, "quantity": 2}`, p.ID)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", decodeOutcome(t, resp).Code)

	// Same product again conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/cart", token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Another user cannot cover a quantity the stock no longer has.
	other := userToken(t, 2)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/cart", other, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sold_out", decodeOutcome(t, resp).Code)

	// Unknown product is a plain 404.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/cart", token, `{"product_id": 999, "quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIncrementDecrementOutcomeCodes(t *testing.T) {
	srv, db := newCartServer(t)
	p := seedCartProduct(t, db, 1)
	token := userToken(t, 1)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart", token,
		fmt.Sprintf(`{"product_id": %d, "quantity": 0}`, p.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)
	itemURL := fmt.Sprintf("%s/api/cart/%d", srv.URL, item.ID)

	resp = doJSON(t, http.MethodGet, itemURL+"/increment", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", decodeOutcome(t, resp).Code)

	resp = doJSON(t, http.MethodGet, itemURL+"/increment", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sold_out", decodeOutcome(t, resp).Code)

	resp = doJSON(t, http.MethodGet, itemURL+"/decrement", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", decodeOutcome(t, resp).Code)

	resp = doJSON(t, http.MethodGet, itemURL+"/decrement", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no_more", decodeOutcome(t, resp).Code)

	// A different user never sees the line.
	resp = doJSON(t, http.MethodGet, itemURL+"/increment", userToken(t, 2), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveFromCartHTTP(t *testing.T) {
	srv, db := newCartServer(t)
	p := seedCartProduct(t, db, 5)
	token := userToken(t, 1)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cart", token,
		fmt.Sprintf(`{"product_id": %d, "quantity": 3}`, p.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/cart/%d", srv.URL, item.ID), token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", decodeOutcome(t, resp).Code)

	var got models.Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 5, got.Quantity)
}
