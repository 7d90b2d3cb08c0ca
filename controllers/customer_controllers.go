package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/utils"
)

// CustomerController serves the lookups used by the customer ordering page.
type CustomerController struct {
	Tables *services.TableService
	Orders *services.OrderService
}

func NewCustomerController(tables *services.TableService, orders *services.OrderService) *CustomerController {
	return &CustomerController{Tables: tables, Orders: orders}
}

// GetTableBySlug returns the table and its most recent order, if any.
func (cc *CustomerController) GetTableBySlug(c *gin.Context) {
	result, err := cc.Tables.GetTableWithLatestOrder(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table found", result)
}

// GetLatestOrder returns the customer's most recent order of any status.
func (cc *CustomerController) GetLatestOrder(c *gin.Context) {
	customerID, err := parseUintParam(c, "customerId")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order, err := cc.Orders.FindLatestOrderByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}
