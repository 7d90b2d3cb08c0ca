package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/qr-table-order/utils"
)

func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{
			"request_id":  c.GetString("request_id"),
			"customer_id": c.Query("customerId"),
			"table":       c.Query("table"),
		}

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.WithFields(fields).Info("Receipt served")
		} else {
			utils.InfoLogger.WithFields(fields).WithField("status", c.Writer.Status()).Warn("Receipt lookup failed")
		}
	}
}
