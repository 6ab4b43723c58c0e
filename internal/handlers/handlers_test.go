package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/db/dbtest"
	"github.com/orderdesk/apiserver/internal/handlers"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gdb := dbtest.Open(t)
	svc := handlers.Services{
		Users:    services.NewUserService(store.NewUserRepository(gdb), services.Options{}),
		Products: services.NewProductService(store.NewProductRepository(gdb), services.Options{}),
		Orders:   services.NewOrderService(store.NewOrderRepository(gdb), services.Options{}),
	}
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		handlers.Routes(r, svc)
	})
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type listBody struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Pages int              `json:"pages"`
}

const adaJSON = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","hashed_password":"secret"}`

func TestUsers_CreateThenList(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/users/add", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[handlers.MessageResponse](t, rec)
	assert.Equal(t, "record created successfully", created.Message)
	assert.NotZero(t, created.ID)

	rec = do(t, router, http.MethodGet, "/api/v1/users/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hashed_password")

	list := decode[listBody](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "ada@example.com", list.Items[0]["email"])
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 50, list.Size)
	assert.Equal(t, 1, list.Pages)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	router := newRouter(t)

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/users/add", adaJSON).Code)

	rec := do(t, router, http.MethodPost, "/api/v1/users/add", adaJSON)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Error, "ada@example.com")
}

func TestProducts_DuplicateName(t *testing.T) {
	router := newRouter(t)
	body := `{"name":"lamp","description":"brass","price":10}`

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/products/add", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/v1/products/add", body).Code)
}

func TestUsers_PasswordLimitCountsBytes(t *testing.T) {
	router := newRouter(t)
	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","hashed_password":"` + strings.Repeat("é", 40) + `"}`

	rec := do(t, router, http.MethodPost, "/api/v1/users/add", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Error, "hashed_password must be at most 72 bytes")

	body = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","hashed_password":"` + strings.Repeat("é", 36) + `"}`
	assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/users/add", body).Code)
}

func TestProducts_RenameOntoExistingName(t *testing.T) {
	router := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/products/add", `{"name":"lamp","price":10}`).Code)
	rec := do(t, router, http.MethodPost, "/api/v1/products/add", `{"name":"desk","price":80}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := strconv.Itoa(decode[handlers.MessageResponse](t, rec).ID)

	rec = do(t, router, http.MethodPut, "/api/v1/products/edit/"+id, `{"name":"lamp"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestCreate_ValidationAndMalformedBodies(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/users/add", `{"first_name":"Ada"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Error, "email is required")

	rec = do(t, router, http.MethodPost, "/api/v1/products/add", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/orders/add", `{"user_id":"one","product_id":1,"status":"new"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_EmptyStoreIsNotFound(t *testing.T) {
	router := newRouter(t)

	for _, resource := range []string{"users", "products", "orders"} {
		rec := do(t, router, http.MethodGet, "/api/v1/"+resource+"/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, resource)
		assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Error, "no records found")
	}
}

func TestList_Pagination(t *testing.T) {
	router := newRouter(t)
	for _, name := range []string{"a", "b", "c"} {
		body := `{"name":"` + name + `","price":1}`
		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/products/add", body).Code)
	}

	rec := do(t, router, http.MethodGet, "/api/v1/products/?page=2&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listBody](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "a", list.Items[0]["name"])
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.Pages)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/v1/products/?page=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/v1/products/?size=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/v1/products/?page=9223372036854775807&size=2", "").Code)
}

func TestEdit_UpdatesOnlySetFields(t *testing.T) {
	router := newRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/products/add", `{"name":"lamp","description":"brass","price":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[handlers.MessageResponse](t, rec).ID
	path := "/api/v1/products/" + strconv.Itoa(id)

	rec = do(t, router, http.MethodPut, "/api/v1/products/edit/"+strconv.Itoa(id), `{"price":12.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "record updated successfully", decode[handlers.MessageResponse](t, rec).Message)

	product := decode[map[string]any](t, do(t, router, http.MethodGet, path, ""))
	assert.Equal(t, "lamp", product["name"])
	assert.Equal(t, "brass", product["description"])
	assert.Equal(t, 12.5, product["price"])

	rec = do(t, router, http.MethodPut, "/api/v1/products/edit/"+strconv.Itoa(id), `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMissingIDIsNotFound(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodPut, "/api/v1/users/edit/999999", `{"first_name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Error, "user 999999")

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/v1/orders/delete/999999", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/products/999999", "").Code)
}

func TestInvalidID(t *testing.T) {
	router := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/v1/users/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodDelete, "/api/v1/users/delete/0", "").Code)
}

func TestDelete_ThenNotFound(t *testing.T) {
	router := newRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/users/add", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := strconv.Itoa(decode[handlers.MessageResponse](t, rec).ID)

	rec = do(t, router, http.MethodDelete, "/api/v1/users/delete/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "record deleted successfully", decode[handlers.MessageResponse](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/users/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/v1/users/delete/"+id, "").Code)
}

func TestOrders_IdenticalAndDangling(t *testing.T) {
	router := newRouter(t)
	body := `{"user_id":1,"product_id":999,"status":"new"}`

	assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/orders/add", body).Code)
	assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/orders/add", body).Code)

	list := decode[listBody](t, do(t, router, http.MethodGet, "/api/v1/orders/", ""))
	assert.Equal(t, 2, list.Total)
	assert.NotEmpty(t, list.Items[0]["order_date"])
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec := do(t, handlers.Healthz(fakePinger{}), http.MethodGet, "/healthz?check=db", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["db_status"])

	rec = do(t, handlers.Healthz(fakePinger{err: errors.New("down")}), http.MethodGet, "/healthz?check=db", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, handlers.Healthz(fakePinger{err: errors.New("down")}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
