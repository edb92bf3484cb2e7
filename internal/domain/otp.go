package domain

// SendOTPRequest - запрос на отправку OTP кода на email
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type"` // "signup" или "reset", по умолчанию "signup"
}

// VerifyOTPRequest - запрос на проверку OTP кода
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
	// Consume - удалять ли код после успешной проверки.
	// По умолчанию true; reset flow передает false, чтобы тот же код
	// оставался валидным для complete-password-reset.
	Consume *bool `json:"consume,omitempty"`
}

// CompletePasswordResetRequest - запрос на завершение сброса пароля
type CompletePasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// StatusResponse - стандартный формат ответа сервиса
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
