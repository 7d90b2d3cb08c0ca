package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/qr-table-order/cache"
	"github.com/yeremiapane/qr-table-order/config"
	"github.com/yeremiapane/qr-table-order/controllers"
	"github.com/yeremiapane/qr-table-order/feed"
	"github.com/yeremiapane/qr-table-order/middlewares"
	"github.com/yeremiapane/qr-table-order/services"
	"github.com/yeremiapane/qr-table-order/storage"
	"github.com/yeremiapane/qr-table-order/utils"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the HTTP layer is built from.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   cache.MenuCache
	Storage storage.Storage
	Hub     *feed.Hub
}

// Services built by SetupRouter, exposed so main can hand the menu service
// to the scheduler.
type Services struct {
	Tables     *services.TableService
	Menus      *services.MenuService
	Categories *services.CategoryService
	Orders     *services.OrderService
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func NewServices(deps Dependencies) *Services {
	return &Services{
		Tables:     services.NewTableService(deps.DB, deps.Hub),
		Menus:      services.NewMenuService(deps.DB, deps.Cache, deps.Hub),
		Categories: services.NewCategoryService(deps.DB),
		Orders:     services.NewOrderService(deps.DB, deps.Hub),
	}
}

func SetupRouter(deps Dependencies, svc *Services) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		services.RegisterJSONFieldNames(v)
	}

	cfg := deps.Config
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	r.NoRoute(func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusNotFound, "route not found", nil)
	})
	r.NoMethod(func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	uploadCtrl := controllers.NewUploadController(deps.Storage)

	// Only image files are served from storage.
	uploads := r.Group("/uploads", func(c *gin.Context) {
		if !imageExtensions[strings.ToLower(filepath.Ext(c.Param("filepath")))] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	})
	uploads.GET("/*filepath", uploadCtrl.ServeFile)

	tableCtrl := controllers.NewTableController(svc.Tables)
	customerCtrl := controllers.NewCustomerController(svc.Tables, svc.Orders)
	categoryCtrl := controllers.NewCategoryController(svc.Categories)
	menuCtrl := controllers.NewMenuController(svc.Menus)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	receiptCtrl := controllers.NewReceiptController(svc.Orders)
	feedCtrl := controllers.NewFeedController(deps.Hub)

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	// Tables and QR slugs
	r.GET("/tables", tableCtrl.GetAllTables)
	r.POST("/tables", tableCtrl.CreateTable)
	r.DELETE("/tables/:id", tableCtrl.DeleteTable)
	r.GET("/tables/slug/:slug", tableCtrl.GetTableBySlug)

	// Customer page lookups
	r.GET("/customer/by-slug/:slug", customerCtrl.GetTableBySlug)
	r.GET("/customer/by-id/:customerId", customerCtrl.GetLatestOrder)

	// Menu catalog
	r.GET("/menu", menuCtrl.GetAllMenus)
	r.POST("/menu", menuCtrl.CreateMenu)
	r.PUT("/menu/:id", menuCtrl.UpdateMenu)
	r.DELETE("/menu/:id", menuCtrl.DeleteMenu)

	r.GET("/category", categoryCtrl.GetAllCategories)
	r.POST("/category", categoryCtrl.CreateCategory)
	r.POST("/category/seed", categoryCtrl.SeedCategories)

	// Orders
	r.POST("/order", orderCtrl.CreateOrder)
	r.GET("/order", orderCtrl.GetAllOrders)
	r.DELETE("/order/:id", orderCtrl.DeleteOrder)
	r.GET("/order/by-customer-id/:id", orderCtrl.GetActiveOrderByCustomer)
	r.GET("/order/by-table/:slug", orderCtrl.GetOrderByTable)
	r.GET("/order/slug/:slug", orderCtrl.GetPendingOrderByTable)

	r.GET("/receipt", middlewares.ReceiptLoggerMiddleware(), receiptCtrl.GetReceipt)

	r.POST("/upload", uploadCtrl.UploadFile)

	r.GET("/ws/admin", feedCtrl.AdminFeed)

	return r
}
