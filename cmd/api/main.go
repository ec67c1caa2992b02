package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"newhill-spices/internal/handler"
	"newhill-spices/internal/model"
	"newhill-spices/internal/payment"
	"newhill-spices/internal/repository"
	"newhill-spices/internal/seed"
	"newhill-spices/internal/service"
	"newhill-spices/internal/shipping"
	"newhill-spices/internal/ws"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/config"
	"newhill-spices/pkg/database"
	"newhill-spices/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// 1. Load config
	cfg := config.Load()
	clk := clock.NewRealClock()

	// 2. Setup Database
	db := database.ConnectDB(cfg)
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// 3. Seed access control always, sample data only outside production
	seeder := seed.New(db, clk)
	admin := seed.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	if err := seeder.Access(admin); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if !cfg.IsProduction() {
		if err := seeder.Catalog(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	addressRepo := repository.NewAddressRepo(db)
	productRepo := repository.NewProductRepo(db)
	lotRepo := repository.NewLotRepo(db)
	cartRepo := repository.NewCartRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	discountRepo := repository.NewDiscountRepo(db)
	currencyRepo := repository.NewCurrencyRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	translationRepo := repository.NewTranslationRepo(db)
	businessRepo := repository.NewBusinessRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	auditService := service.NewAuditService(auditRepo, wsHub, clk)
	currencyService := service.NewCurrencyService(currencyRepo, auditService)
	settingService := service.NewSettingService(settingRepo, auditService)
	translationService := service.NewTranslationService(translationRepo, auditService)
	discountService := service.NewDiscountService(discountRepo, auditService, clk)

	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, auditService, clk)
	oauthService := service.NewOAuthService(service.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}, userRepo, roleRepo, authService, auditService, clk)
	accountService := service.NewAccountService(userRepo, auditService)
	customerService := service.NewCustomerService(userRepo, roleRepo, auditService)
	addressService := service.NewAddressService(addressRepo, tx)
	businessService := service.NewBusinessService(businessRepo, settingService, auditService, wsHub, clk)

	catalogService := service.NewCatalogService(productRepo, currencyService)
	productService := service.NewProductService(productRepo, lotRepo, auditService)
	lotService := service.NewLotService(lotRepo, auditService)
	cartService := service.NewCartService(cartRepo, productRepo, currencyService)
	dashService := service.NewDashboardService(orderRepo, productRepo, clk)

	payments := payment.NewRegistry(
		payment.NewRazorpay(payment.RazorpayConfig{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
		}),
		payment.NewDibsy(clk),
		payment.NewTelr(clk, cfg.TelrStoreID),
		payment.NewMoyasar(clk, cfg.MoyasarPublicKey),
		payment.NewOmanNet(clk, cfg.OmanNetMerchantID),
	)
	var shiprocket *shipping.Shiprocket
	if cfg.ShiprocketConfigured() {
		shiprocket = shipping.NewShiprocket(shipping.ShiprocketConfig{
			Email:          cfg.ShiprocketEmail,
			Password:       cfg.ShiprocketPassword,
			ChannelID:      cfg.ShiprocketChannelID,
			BaseURL:        cfg.ShiprocketBaseURL,
			PickupLocation: cfg.PickupLocation,
			PickupPostcode: cfg.PickupPostcode,
		}, clk)
	} else {
		log.Println("Warning: Shiprocket credentials missing, domestic quotes use the flat rate")
	}
	dispatcher := shipping.NewDispatcher(shiprocket, shipping.NewGCC(clk), currencyService)

	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Tx:        tx,
		Orders:    orderRepo,
		Products:  productRepo,
		Carts:     cartRepo,
		Addresses: addressRepo,
		Discounts: discountRepo,
		Rates:     currencyService,
		Settings:  settingService,
		Audit:     auditService,
		Payments:  payments,
		Shipping:  dispatcher,
		Notifier:  wsHub,
		Clock:     clk,
	})
	orderService := service.NewOrderService(tx, orderRepo, productRepo, payments, dispatcher, auditService, wsHub)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, oauthService, cfg.SessionCookie, cfg.IsProduction()),
		User:       handler.NewUserHandler(accountService, customerService),
		Address:    handler.NewAddressHandler(addressService),
		Store:      handler.NewStoreHandler(catalogService, currencyService, translationService, settingService, checkoutService),
		Cart:       handler.NewCartHandler(cartService),
		Order:      handler.NewOrderHandler(checkoutService, orderService, discountService),
		Product:    handler.NewProductHandler(productService, lotService),
		Dashboard:  handler.NewDashboardHandler(dashService, auditService),
		Business:   handler.NewBusinessHandler(businessService),
		Config:     handler.NewConfigHandler(discountService, currencyService, settingService, translationService),
		Role:       handler.NewRoleHandler(roleRepo, privilegeRepo),
		WS:         handler.NewWSHandler(wsHub, authService),
		Authn:      authService,
		CookieName: cfg.SessionCookie,
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Newhill Spices API",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	// 7. Routes
	handler.Register(app, handlers)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
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
	wsHub.Stop()

	log.Println("Server exited")
}
