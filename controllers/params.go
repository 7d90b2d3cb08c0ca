package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
)

// parseUintParam reads a positive numeric path parameter.
func parseUintParam(c *gin.Context, name string) (uint, error) {
	return parseUint(c.Param(name), name)
}

func parseUint(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return uint(id), nil
}
