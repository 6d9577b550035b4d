package routes

import (
	"FoodBridge-Backend/internal/api/handlers"
	"FoodBridge-Backend/internal/middleware"
	"FoodBridge-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	DonationHandler handlers.DonationHandler
	InsightHandler  handlers.InsightHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Donations()
	c.Insights()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
		user.Post("/preferences/refresh", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.RefreshPreferences)
		user.Post("/:id/verify", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminMiddleware(), c.UserHandler.VerifyAcceptor)
	}
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.JWTService))
	{
		donations.Post("", c.DonationHandler.SubmitDonation)
		donations.Get("/nearby", c.DonationHandler.GetNearbyDonations)
		donations.Get("/mine", c.DonationHandler.GetUserDonations)
		donations.Get("/statistics", c.DonationHandler.GetDonationStatistics)
		donations.Get("/:id", c.DonationHandler.GetDonationByID)
		donations.Post("/:id/accept", c.DonationHandler.AcceptDonation)
		donations.Post("/:id/complete", c.DonationHandler.CompleteDonation)
		donations.Post("/:id/cancel", c.DonationHandler.CancelDonation)
		donations.Post("/:id/rate", c.DonationHandler.RateDonation)
	}
}

func (c *Config) Insights() {
	insights := c.App.Group("/api/v1/insights", c.Middleware.AuthMiddleware(c.JWTService))
	{
		insights.Get("", c.InsightHandler.GetInsights)
		insights.Post("/generate", c.Middleware.AdminMiddleware(), c.InsightHandler.GenerateInsights)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
