package main

import (
	"log"
	"os"

	"otp-service/internal/delivery"
	service2 "otp-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	} else {
		log.Println("Environment variables loaded from .env file")
	}

	otpStore := service2.NewMemoryStore()

	mailer := service2.NewMailer()

	// Identity провайдер может стартовать в деградированном режиме,
	// если учетные данные не настроены - сервис все равно поднимается
	identityService := service2.NewIdentityService()

	otpHandler := delivery.NewOTPHandler(otpStore, mailer, identityService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowCredentials: true,
	}))

	// OTP FLOW
	//
	// 1. POST /send-otp                 - выдать код и отправить письмо
	// 2. POST /verify-otp               - проверить код (signup: consume=true)
	// 3. POST /complete-password-reset  - проверить код и сменить пароль

	app.Post("/send-otp", otpHandler.SendOTP)
	app.Post("/verify-otp", otpHandler.VerifyOTP)
	app.Post("/complete-password-reset", otpHandler.CompletePasswordReset)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Fatal(app.Listen(":" + port))
}
