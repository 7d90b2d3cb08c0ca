package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-table-order/apperror"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/utils"
)

type CategoryController struct {
	Categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{Categories: categories}
}

func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := cc.Categories.ListCategories(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.FromBinding(err))
		return
	}

	category, err := cc.Categories.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("New category created: %s", category.Name)
	utils.RespondJSON(c, http.StatusOK, "Category created successfully", category)
}

func (cc *CategoryController) SeedCategories(c *gin.Context) {
	categories, err := cc.Categories.SeedDefaults(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories seeded", categories)
}
