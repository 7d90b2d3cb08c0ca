package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/utils"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{Menus: menus}
}

// GetAllMenus lists menus with their category and options.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	menus, err := mc.Menus.ListMenus(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req services.CreateMenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.FromBinding(err))
		return
	}

	menu, err := mc.Menus.CreateMenu(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("New menu created: %s (id=%d, options=%d)", menu.Name, menu.ID, len(menu.Options))
	utils.RespondJSON(c, http.StatusOK, "Menu created successfully", menu)
}

// UpdateMenu applies a partial update of name, price, stock and description.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var req services.UpdateMenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.FromBinding(err))
		return
	}

	menu, err := mc.Menus.UpdateMenu(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu %d updated", menu.ID)
	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := mc.Menus.DeleteMenu(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Menu deleted successfully", nil)
}
