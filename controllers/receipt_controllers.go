package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/utils"
)

type ReceiptController struct {
	Orders *services.OrderService
}

func NewReceiptController(orders *services.OrderService) *ReceiptController {
	return &ReceiptController{Orders: orders}
}

// GetReceipt looks up the latest order for ?customerId=&table=.
func (rc *ReceiptController) GetReceipt(c *gin.Context) {
	rawCustomerID := strings.TrimSpace(c.Query("customerId"))
	table := strings.TrimSpace(c.Query("table"))
	if rawCustomerID == "" || table == "" {
		utils.RespondAppError(c, apperror.Validation("customerId and table are required"))
		return
	}

	customerID, err := parseUint(rawCustomerID, "customerId")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	receipt, err := rc.Orders.FindOrderForReceipt(c.Request.Context(), customerID, table)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt found", receipt)
}
