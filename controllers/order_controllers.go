package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetAllOrders lists orders newest first with customer and item details.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder checks out a cart for a table.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.FromBinding(err))
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created at table %s (%d items, customer=%d)",
		order.ID, order.TableSlug, len(order.Items), order.CustomerID)
	utils.RespondJSON(c, http.StatusOK, "Order created successfully", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Order deleted successfully", nil)
}

// GetActiveOrderByCustomer returns the customer's latest pending order.
func (oc *OrderController) GetActiveOrderByCustomer(c *gin.Context) {
	customerID, err := parseUintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order, err := oc.Orders.FindActiveOrderByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}

func (oc *OrderController) GetOrderByTable(c *gin.Context) {
	order, err := oc.Orders.FindOrderByTableSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}

func (oc *OrderController) GetPendingOrderByTable(c *gin.Context) {
	order, err := oc.Orders.FindPendingOrderByTableSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}
