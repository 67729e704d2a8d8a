package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableorder/models"
	"tableorder/services/menu"
	"tableorder/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *menu.StaticCatalog {
	t.Helper()
	catalog, err := menu.NewCatalog(models.MenuDocument{
		Items: []models.MenuItem{
			{ID: "p1", Name: "Paneer Tikka Pizza", Price: 349},
			{ID: "t1", Name: "Masala Tea", Price: 40},
		},
	})
	require.NoError(t, err)
	return catalog
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := testCatalog(t)
	svc := session.NewSessionService(session.NewMemoryStore(time.Hour, time.Hour), catalog, nil, nil)

	hb := NewHandlerBundle(NewSessionHandler(svc), NewMenuHandler(catalog), NewAgentHandler(nil, nil))
	r := gin.New()
	r.POST("/session/start", hb.StartSession)
	r.GET("/menu", hb.GetMenu)
	r.POST("/cart/add", hb.AddToCart)
	r.POST("/cart/remove", hb.RemoveFromCart)
	r.POST("/cart/confirm", hb.ConfirmCart)
	r.GET("/cart/:session_id", hb.GetCart)
	r.POST("/order/place", hb.PlaceOrder)
	r.GET("/order/status/:order_id", hb.GetOrderStatus)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestSessionHandler_OrderFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/session/start", gin.H{"table_id": "T4"})
	require.Equal(t, http.StatusOK, w.Code)
	var started struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	}
	decode(t, w, &started)
	assert.Equal(t, "ORDERING", started.Status)
	sid := started.SessionID

	w = doJSON(r, http.MethodPost, "/cart/add", gin.H{"session_id": sid, "item_id": "p1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/cart/add", gin.H{"session_id": sid, "item_id": "t1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/remove", gin.H{"session_id": sid, "item_id": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/cart/"+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart CartResponse
	decode(t, w, &cart)
	assert.Equal(t, 1, cart.Items.Quantity("p1"))
	assert.Equal(t, 1, cart.Items.Quantity("t1"))
	assert.InDelta(t, 389.0, cart.Total, 0.001)

	w = doJSON(r, http.MethodPost, "/cart/confirm?session_id="+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIRMED")

	w = doJSON(r, http.MethodPost, "/cart/add", gin.H{"session_id": sid, "item_id": "t1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/order/place?session_id="+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var placed struct {
		OrderID string `json:"order_id"`
	}
	decode(t, w, &placed)
	require.NotEmpty(t, placed.OrderID)

	w = doJSON(r, http.MethodGet, "/order/status/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	decode(t, w, &order)
	assert.Equal(t, "T4", order.TableID)
	assert.Len(t, order.Items, 2)
}

func TestSessionHandler_Errors(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/session/start", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/cart/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/order/status/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/session/start", gin.H{"table_id": "T1"})
	var started struct {
		SessionID string `json:"session_id"`
	}
	decode(t, w, &started)

	w = doJSON(r, http.MethodPost, "/cart/add", gin.H{"session_id": started.SessionID, "item_id": "zz"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/remove", gin.H{"session_id": started.SessionID, "item_id": "t1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/cart/confirm?session_id="+started.SessionID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/order/place?session_id="+started.SessionID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMenuHandler_GetMenu(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []models.MenuItem `json:"items"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Items, 2)
}
