package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/service"
)

const maxFormBytes = 64 << 10

type OrderController struct {
	orderService core.OrderService
	logger       *zap.Logger
}

func NewOrderController(orderService core.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

func (c *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		c.logger.Debug("Invalid form body", zap.Error(err))
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := model.OrderForm{
		Bread:            r.PostForm.Get(model.FieldBread),
		Sweets:           r.PostForm.Get(model.FieldSweets),
		Bars:             r.PostForm.Get(model.FieldBars),
		Choco:            r.PostForm.Get(model.FieldChoco),
		Fruits:           r.PostForm.Get(model.FieldFruits),
		Vegetable:        r.PostForm.Get(model.FieldVegetable),
		CollegeAvailable: r.PostForm.Get(model.FieldCollegeAvailable),
		Comments:         r.PostForm.Get(model.FieldComments),
	}

	order, err := c.orderService.SubmitOrder(r.Context(), form)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.logger.Debug("Order rejected", zap.Error(err))
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}

		c.logger.Error("Failed to submit order", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	c.logger.Info("Order submitted", zap.Int64("order_id", order.ID))
	http.Redirect(w, r, "/success", http.StatusSeeOther)
}

func (c *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orderService.ListOrders(r.Context())
	if err != nil {
		c.logger.Error("Failed to get orders", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if orders == nil {
		orders = []*model.Order{}
	}

	render.JSON(w, r, orders)
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	order, err := c.orderService.GetOrder(r.Context(), id)
	if err != nil {
		c.logger.Error("Failed to get order",
			zap.Int64("order_id", id),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if order == nil {
		http.NotFound(w, r)
		return
	}

	render.JSON(w, r, order)
}

func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, err := c.orderService.RemoveOrder(r.Context(), id); err != nil {
		c.logger.Error("Failed to delete order",
			zap.Int64("order_id", id),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
