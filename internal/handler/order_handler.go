package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/metrics"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
)

type OrderHandler struct {
	orders   *usecase.OrderUsecase
	payments *usecase.PaymentUsecase
	metrics  *metrics.OrderMetrics
}

func NewOrderHandler(orders *usecase.OrderUsecase, payments *usecase.PaymentUsecase, m *metrics.OrderMetrics) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments, metrics: m}
}

// product_uuidが空ならカートの中身で注文する
type OrderCreateRequest struct {
	AddressID   int64  `json:"address_id"`
	ProductUUID string `json:"product_uuid"`
	Quantity    int64  `json:"quantity"`
}

type OrderCreateResponse struct {
	Order usecase.OrderOutput   `json:"order"`
	Pay   usecase.PayFormOutput `json:"pay"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/pay", h.repay)
}

// 注文を確定して決済画面のURLを返す。
// 決済画面の生成に失敗しても注文は確定済みのまま残る（/orders/:id/pay で再決済できる）。
func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	mode := "cart"
	if req.ProductUUID != "" {
		mode = "single"
	}

	out, err := h.orders.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		AddressID:   req.AddressID,
		ProductUUID: req.ProductUUID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.metrics.OrderFailed(mode)
		return writeError(c, err)
	}
	h.metrics.OrderPlaced(mode)

	pay, err := h.payments.BuildPayForm(c.Request().Context(), out, isMobileRequest(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderCreateResponse{Order: out, Pay: pay})
}

// 再決済。未払いの注文から決済画面を作り直す
func (h *OrderHandler) repay(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetOrderForRepay(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	pay, err := h.payments.BuildPayForm(c.Request().Context(), out, isMobileRequest(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, pay)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orders.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// User-Agentからモバイル端末かを判定（wap/webの決済画面の出し分け）
func isMobileRequest(c echo.Context) bool {
	ua := useragent.Parse(c.Request().UserAgent())
	return ua.Mobile || ua.Tablet
}

// middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("user_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
