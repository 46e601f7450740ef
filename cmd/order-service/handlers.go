package main

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/orders-api/internal/httpx"
	"github.com/MikeMC777/orders-api/internal/metrics"
	ord "github.com/MikeMC777/orders-api/internal/order"
)

const (
	msgValidation = "Email and cart items are required"
	msgNotFound   = "Order not found"
	msgInternal   = "Internal server error"

	msgPaymentOK     = "Payment successful"
	msgPaymentFailed = "Payment failed"
)

type routerDeps struct {
	svc      *ord.Service
	store    ord.Pinger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *log.Entry
}

func newRouter(d routerDeps) *gin.Engine {
	if d.logger == nil {
		d.logger = log.WithField("component", "http")
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.logger), httpx.Metrics(d.metrics), cors.Default())

	r.GET("/healthz", healthHandler(d.store))
	if d.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/payment/checkout-session", checkoutHandler(d.svc, d.metrics, d.logger))
	api.GET("/orders", listOrdersHandler(d.svc, d.logger))
	api.GET("/orders/:id", getOrderHandler(d.svc, d.logger))
	return r
}

// @Summary Checkout a cart
// @Description Persists the order, simulates the payment and returns the resolved order.
// @Tags payment
// @Accept json
// @Produce json
// @Param input body ord.CheckoutRequest true "Cart"
// @Success 200 {object} ord.CheckoutResponse
// @Failure 400 {object} ord.CheckoutResponse "payment declined, or ord.HTTPError on validation"
// @Failure 500 {object} ord.HTTPError
// @Router /payment/checkout-session [post]
func checkoutHandler(svc *ord.Service, m *metrics.Metrics, logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// an unreadable body carries neither email nor items
			req = ord.CheckoutRequest{}
		}

		o, err := svc.Checkout(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, ord.ErrValidation) {
				m.Checkout(metrics.OutcomeInvalid)
				c.JSON(http.StatusBadRequest, ord.HTTPError{Error: msgValidation})
				return
			}
			m.Checkout(metrics.OutcomeError)
			internalError(c, logger, "Error creating order", err)
			return
		}

		if o.Status == ord.StatusSuccess {
			m.Checkout(metrics.OutcomeSuccess)
			c.JSON(http.StatusOK, ord.CheckoutResponse{Message: msgPaymentOK, Order: o})
			return
		}
		m.Checkout(metrics.OutcomeFailed)
		c.JSON(http.StatusBadRequest, ord.CheckoutResponse{Message: msgPaymentFailed, Order: o})
	}
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} ord.Order
// @Failure 500 {object} ord.HTTPError
// @Router /orders [get]
func listOrdersHandler(svc *ord.Service, logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context())
		if err != nil {
			internalError(c, logger, "Error fetching orders", err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} ord.Order
// @Failure 404 {object} ord.HTTPError
// @Failure 500 {object} ord.HTTPError
// @Router /orders/{id} [get]
func getOrderHandler(svc *ord.Service, logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, ord.HTTPError{Error: msgNotFound})
				return
			}
			// malformed ids land here too
			internalError(c, logger, "Error fetching order", err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func healthHandler(p ord.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			if err := p.Ping(c.Request.Context()); err != nil {
				c.String(http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ok")
	}
}

func internalError(c *gin.Context, logger *log.Entry, msg string, err error) {
	logger.WithError(err).WithField("rid", httpx.RID(c)).Error(msg)
	c.JSON(http.StatusInternalServerError, ord.HTTPError{Error: msgInternal})
}
