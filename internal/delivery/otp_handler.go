package delivery

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"otp-service/internal/domain"
	"otp-service/internal/service"
)

// Notifier отправляет письмо с OTP кодом
type Notifier interface {
	Send(kind domain.MessageKind, to, code string) error
}

// IdentityProvider - внешний identity провайдер, владеющий учетными записями
type IdentityProvider interface {
	UserIDByEmail(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, userID, newPassword string) error
}

// OTPHandler обрабатывает выдачу и проверку OTP кодов
type OTPHandler struct {
	store    service.Store
	notifier Notifier
	identity IdentityProvider
}

// NewOTPHandler создает новый OTP handler
func NewOTPHandler(store service.Store, notifier Notifier, identity IdentityProvider) *OTPHandler {
	return &OTPHandler{
		store:    store,
		notifier: notifier,
		identity: identity,
	}
}

// SendOTP выдает новый OTP код и отправляет его на email
// POST /send-otp
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req domain.SendOTPRequest

	if err := c.BodyParser(&req); err != nil {
		log.Printf("Failed to parse SendOTP request: %v", err)
		return respondBadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return respondBadRequest(c, domain.ErrEmailRequired.Error())
	}

	kind := domain.ParseMessageKind(req.Type)
	log.Printf("📧 OTP request for %s (type=%s)", req.Email, kind)

	if kind == domain.KindReset {
		// Сброс пароля имеет смысл только для существующего аккаунта.
		// Жесткий отказ - только при подтвержденном отсутствии пользователя;
		// прочие ошибки провайдера не блокируют выдачу кода.
		if _, err := h.identity.UserIDByEmail(c.Context(), req.Email); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				log.Printf("❌ Password reset requested for unknown user %s", req.Email)
				return respondFailure(c, "User does not exist")
			}
			log.Printf("Identity lookup failed for %s, proceeding anyway: %v", req.Email, err)
		}
	}

	code, err := h.store.Issue(req.Email)
	if err != nil {
		log.Printf("Failed to issue OTP for %s: %v", req.Email, err)
		return respondInternalError(c, "Failed to generate OTP code")
	}

	if err := h.notifier.Send(kind, req.Email, code); err != nil {
		log.Printf("❌ Failed to send OTP email to %s: %v", req.Email, err)
		return respondInternalError(c, "Failed to send OTP email")
	}

	log.Printf("✅ OTP sent to %s", req.Email)

	return respondOK(c, domain.StatusResponse{
		Success: true,
		Message: "OTP sent successfully",
	})
}

// VerifyOTP проверяет OTP код для email
// POST /verify-otp
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req domain.VerifyOTPRequest

	if err := c.BodyParser(&req); err != nil {
		log.Printf("Failed to parse VerifyOTP request: %v", err)
		return respondBadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Code == "" {
		return respondBadRequest(c, "Email and OTP code are required")
	}

	if err := h.store.Validate(req.Email, req.Code); err != nil {
		log.Printf("❌ OTP verification failed for %s: %v", req.Email, err)
		return respondFailure(c, verificationFailureMessage(err))
	}

	// Reset flow передает consume=false, чтобы проверить код заранее,
	// а потратить его на шаге complete-password-reset
	if req.Consume == nil || *req.Consume {
		h.store.Consume(req.Email)
	}

	log.Printf("✅ OTP verified for %s", req.Email)

	return respondOK(c, domain.StatusResponse{
		Success: true,
		Message: "OTP Verified",
	})
}

// CompletePasswordReset проверяет код и меняет пароль через identity провайдера
// POST /complete-password-reset
func (h *OTPHandler) CompletePasswordReset(c *fiber.Ctx) error {
	var req domain.CompletePasswordResetRequest

	if err := c.BodyParser(&req); err != nil {
		log.Printf("Failed to parse CompletePasswordReset request: %v", err)
		return respondBadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return respondBadRequest(c, "Email, OTP code and new password are required")
	}

	if err := h.store.Validate(req.Email, req.Code); err != nil {
		log.Printf("❌ OTP check failed during password reset for %s: %v", req.Email, err)
		return respondFailure(c, verificationFailureMessage(err))
	}

	// send-otp уже проверял существование пользователя, но к этому моменту
	// аккаунт мог исчезнуть - поэтому ошибка поиска обрабатывается так же,
	// как любой другой отказ провайдера
	userID, err := h.identity.UserIDByEmail(c.Context(), req.Email)
	if err != nil {
		log.Printf("❌ Failed to resolve user %s for password reset: %v", req.Email, err)
		return respondInternalError(c, "Failed to update password: "+err.Error())
	}

	if err := h.identity.UpdatePassword(c.Context(), userID, req.NewPassword); err != nil {
		// Код не удаляем: caller может повторить завершение сброса,
		// не запрашивая новый OTP
		log.Printf("❌ Failed to update password for %s: %v", req.Email, err)
		return respondInternalError(c, "Failed to update password: "+err.Error())
	}

	h.store.Consume(req.Email)

	log.Printf("✅ Password updated for %s", req.Email)

	return respondOK(c, domain.StatusResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

// verificationFailureMessage переводит ошибку проверки кода в текст ответа
func verificationFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		return "No OTP found for this email"
	case errors.Is(err, domain.ErrOTPExpired):
		return "OTP expired"
	case errors.Is(err, domain.ErrOTPTooManyAttempts):
		return "Too many failed attempts"
	default:
		return "Invalid OTP"
	}
}
