package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"mekarsari-pos/internal/handler"
	"mekarsari-pos/internal/middleware"
	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/internal/revocation"
	"mekarsari-pos/internal/service"
	"mekarsari-pos/internal/ws"
	"mekarsari-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.User{},
		&model.Ingredient{},
		&model.Product{},
		&model.Recipe{},
		&model.SalesSession{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
		&model.OperationalExpense{},
	)

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Token blocklist: redis when configured, in-memory otherwise
	blocklist := newBlocklist()

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	productRepo := repository.NewProductRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)

	authService := service.NewAuthService(userRepo, blocklist)
	userService := service.NewUserService(userRepo)
	masterService := service.NewMasterService(ingredientRepo, productRepo)
	inventoryService := service.NewInventoryService(ingredientRepo, db, wsHub)
	shiftService := service.NewShiftService(sessionRepo, db)
	orderService := service.NewOrderService(db, productRepo, orderRepo, sessionRepo, ingredientRepo, wsHub)
	reportService := service.NewReportService(ingredientRepo, orderRepo, expenseRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	masterHandler := handler.NewMasterHandler(masterService)
	salesHandler := handler.NewSalesHandler(shiftService, orderService, masterService)
	productionHandler := handler.NewProductionHandler(inventoryService, orderService, masterService)
	reportHandler := handler.NewReportHandler(reportService, orderService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Mekar Sari POS v1.0",
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(blocklist))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Cashier surface
	sales := protected.Group("/sales", middleware.RequireRoles(model.RoleCashier))
	sales.Get("/dashboard", salesHandler.Dashboard)
	sales.Post("/shift/open", salesHandler.OpenShift)
	sales.Post("/shift/close", salesHandler.CloseShift)
	sales.Get("/menu", salesHandler.Menu)
	sales.Post("/orders", salesHandler.CreateOrder)
	sales.Get("/orders/:invoice_no/receipt", salesHandler.Receipt)
	sales.Post("/orders/:invoice_no/settle", salesHandler.SettleOrder)
	sales.Post("/orders/:invoice_no/void", salesHandler.VoidOrder)

	// Kitchen/warehouse surface
	production := protected.Group("/production", middleware.RequireRoles(model.RoleKitchen))
	production.Get("/dashboard", productionHandler.Dashboard)
	production.Get("/stocks", productionHandler.Stocks)
	production.Get("/ingredients/options", productionHandler.IngredientOptions)
	production.Get("/ingredients/:id/logs", productionHandler.IngredientLogs)
	production.Post("/restock", productionHandler.Restock)
	production.Post("/adjust", productionHandler.AdjustStock)
	production.Get("/queue", productionHandler.Queue)

	// Admin surface
	admin := protected.Group("/admin", middleware.RequireRoles(model.RoleAdmin))
	admin.Get("/dashboard", reportHandler.Dashboard)

	admin.Post("/ingredients", masterHandler.CreateIngredient)
	admin.Get("/ingredients", masterHandler.ListIngredients)
	admin.Put("/ingredients/:id", masterHandler.UpdateIngredient)
	admin.Delete("/ingredients/:id", masterHandler.DeleteIngredient)

	admin.Post("/products", masterHandler.CreateProduct)
	admin.Get("/products", masterHandler.ListProducts)
	admin.Put("/products/:id", masterHandler.UpdateProduct)
	admin.Delete("/products/:id", masterHandler.DeleteProduct)
	admin.Get("/products/:id/recipes", masterHandler.ListRecipes)
	admin.Post("/recipes", masterHandler.AddRecipe)
	admin.Delete("/recipes/:id", masterHandler.DeleteRecipe)

	admin.Post("/users", userHandler.CreateUser)
	admin.Get("/users", userHandler.ListUsers)
	admin.Get("/users/staff", userHandler.ListStaff)
	admin.Put("/users/:id", userHandler.UpdateUser)
	admin.Delete("/users/:id", userHandler.DeactivateUser)

	admin.Get("/reports/stock", reportHandler.StockReport)
	admin.Get("/reports/sales", reportHandler.SalesReport)
	admin.Get("/reports/profit-loss", reportHandler.ProfitLoss)
	admin.Post("/expenses", reportHandler.AddExpense)
	admin.Get("/expenses", reportHandler.ListExpenses)
	admin.Delete("/orders/:invoice_no", reportHandler.DeleteOrder)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// newBlocklist picks the token revocation backend from the environment.
func newBlocklist() revocation.Checker {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, using in-memory token blocklist")
		return revocation.NewMemoryBlocklist()
	}

	dbNum := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			dbNum = n
		}
	}
	return revocation.NewRedisBlocklist(addr, os.Getenv("REDIS_PASSWORD"), dbNum)
}

// seedAdmin creates the default admin account on first boot.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByUsername("admin"); err == nil {
		return
	}

	admin := &model.User{
		Username: "admin",
		FullName: "Pemilik Toko",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("✅ Admin user created: admin /", password)
	}
}
