package delivery

import (
	"github.com/gofiber/fiber/v2"

	"otp-service/internal/domain"
)

// respondOK - успешный ответ (200)
func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// respondFailure - бизнес-ошибка: статус 200, success=false.
// Фронтенд различает исходы по message, а не по HTTP статусу.
func respondFailure(c *fiber.Ctx, message string) error {
	return respondOK(c, domain.StatusResponse{Success: false, Message: message})
}

// respondBadRequest - ошибка валидации входных данных (400)
func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(domain.StatusResponse{
		Success: false,
		Message: message,
	})
}

// respondInternalError - ошибка внешнего вызова или самого сервиса (500)
func respondInternalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(domain.StatusResponse{
		Success: false,
		Message: message,
	})
}
