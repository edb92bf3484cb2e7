package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"otp-service/internal/domain"
)

const (
	// otpTTL - время жизни OTP кода
	otpTTL = 5 * time.Minute
	// otpMaxAttempts - максимум неудачных попыток до удаления кода
	otpMaxAttempts = 5
)

// Record - запись об OTP коде для одного email
type Record struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// Expired сообщает, истек ли срок действия кода
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Store - хранилище OTP кодов: на каждый email не более одного живого кода
type Store interface {
	// Issue генерирует новый код, перезаписывая прежний
	Issue(subject string) (string, error)
	// Peek возвращает запись без побочных эффектов
	Peek(subject string) (Record, bool)
	// Validate проверяет код: не найден / истек / не совпал / ок
	Validate(subject, code string) error
	// Consume безусловно удаляет запись (код одноразовый)
	Consume(subject string)
	// DiscardIfExpired удаляет запись, только если срок истек
	DiscardIfExpired(subject string)
}

// MemoryStore хранит OTP коды в памяти процесса.
// Записи не переживают рестарт и не разделяются между инстансами.
type MemoryStore struct {
	mu    sync.RWMutex
	codes map[string]*Record

	now func() time.Time
}

// NewMemoryStore создает новое хранилище OTP
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes: make(map[string]*Record),
		now:   time.Now,
	}
}

// Issue генерирует 6-значный код и сохраняет его с TTL 5 минут.
// Прежний код для этого email перестает действовать.
func (s *MemoryStore) Issue(subject string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[subject] = &Record{
		Code:      code,
		ExpiresAt: s.now().Add(otpTTL),
		Attempts:  0,
	}

	return code, nil
}

// Peek возвращает копию записи для subject
func (s *MemoryStore) Peek(subject string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.codes[subject]
	if !exists {
		return Record{}, false
	}
	return *rec, true
}

// Validate проверяет код для subject.
// Истекшая запись удаляется сразу (lazy expiry - фоновой очистки нет).
// Несовпадение кода запись не удаляет, чтобы оставить возможность
// повторного ввода в пределах исходного окна.
func (s *MemoryStore) Validate(subject, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.codes[subject]
	if !exists {
		return domain.ErrOTPNotFound
	}

	if rec.Expired(s.now()) {
		delete(s.codes, subject)
		return domain.ErrOTPExpired
	}

	if rec.Code != code {
		rec.Attempts++
		if rec.Attempts >= otpMaxAttempts {
			delete(s.codes, subject)
			return domain.ErrOTPTooManyAttempts
		}
		return domain.ErrOTPMismatch
	}

	return nil
}

// Consume удаляет запись для subject
func (s *MemoryStore) Consume(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, subject)
}

// DiscardIfExpired удаляет запись для subject, если срок ее действия истек
func (s *MemoryStore) DiscardIfExpired(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.codes[subject]
	if exists && rec.Expired(s.now()) {
		delete(s.codes, subject)
	}
}

// generateCode генерирует случайный 6-значный код в диапазоне [100000, 999999]
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
