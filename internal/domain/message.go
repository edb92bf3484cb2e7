package domain

// MessageKind - вид письма с OTP кодом
type MessageKind string

const (
	// KindSignup - письмо подтверждения email при регистрации
	KindSignup MessageKind = "signup"
	// KindReset - письмо для сброса пароля
	KindReset MessageKind = "reset"
)

// ParseMessageKind разбирает значение поля type из запроса.
// Любое значение кроме "reset" трактуется как signup.
func ParseMessageKind(s string) MessageKind {
	if s == string(KindReset) {
		return KindReset
	}
	return KindSignup
}
