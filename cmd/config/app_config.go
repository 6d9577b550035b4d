package config

import (
	"FoodBridge-Backend/internal/api/handlers"
	"FoodBridge-Backend/internal/api/routes"
	"FoodBridge-Backend/internal/middleware"
	"FoodBridge-Backend/internal/utils"
	"FoodBridge-Backend/internal/utils/storage"
	"FoodBridge-Backend/pkg/ai"
	"FoodBridge-Backend/pkg/behavior"
	"FoodBridge-Backend/pkg/donation"
	"FoodBridge-Backend/pkg/insight"
	"FoodBridge-Backend/pkg/jwt"
	"FoodBridge-Backend/pkg/matching"
	"FoodBridge-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Karachi",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	inferenceClient := ai.NewGeminiClient()
	analyzer := ai.NewContentAnalyzer(inferenceClient)

	// Repository
	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	insightRepository := insight.NewInsightRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	donationService := donation.NewDonationService(donationRepository, userRepository, analyzer, s3)
	matchingService := matching.NewMatchingService(donationRepository, userRepository)
	behaviorService := behavior.NewBehaviorService(donationRepository, userRepository, inferenceClient)
	insightService := insight.NewInsightService(insightRepository, inferenceClient)

	// Handler
	userHandler := handlers.NewUserHandler(userService, behaviorService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, matchingService, validator)
	insightHandler := handlers.NewInsightHandler(insightService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		DonationHandler: donationHandler,
		InsightHandler:  insightHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
