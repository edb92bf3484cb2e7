package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otp-service/internal/domain"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

func TestMemoryStoreIssueAndPeek(t *testing.T) {
	store := NewMemoryStore()

	code, err := store.Issue("a@x.com")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)

	rec, ok := store.Peek("a@x.com")
	require.True(t, ok)
	assert.Equal(t, code, rec.Code)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), rec.ExpiresAt, 2*time.Second)
}

func TestMemoryStorePeekUnknownSubject(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Peek("nobody@x.com")
	assert.False(t, ok)
}

func TestMemoryStoreReissueInvalidatesPreviousCode(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Issue("a@x.com")
	require.NoError(t, err)

	second, err := store.Issue("a@x.com")
	require.NoError(t, err)

	if first == second {
		t.Skip("collision between two random codes, nothing to assert")
	}

	assert.ErrorIs(t, store.Validate("a@x.com", first), domain.ErrOTPMismatch)
	assert.NoError(t, store.Validate("a@x.com", second))
}

func TestMemoryStoreValidate(t *testing.T) {
	store := NewMemoryStore()

	assert.ErrorIs(t, store.Validate("a@x.com", "123456"), domain.ErrOTPNotFound)

	code, err := store.Issue("a@x.com")
	require.NoError(t, err)

	assert.NoError(t, store.Validate("a@x.com", code))

	// Успешная проверка сама по себе код не тратит
	assert.NoError(t, store.Validate("a@x.com", code))

	store.Consume("a@x.com")
	assert.ErrorIs(t, store.Validate("a@x.com", code), domain.ErrOTPNotFound)
}

func TestMemoryStoreMismatchKeepsRecord(t *testing.T) {
	store := NewMemoryStore()

	code, err := store.Issue("a@x.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, store.Validate("a@x.com", wrong), domain.ErrOTPMismatch)
	assert.NoError(t, store.Validate("a@x.com", code))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()

	now := time.Now()
	store.now = func() time.Time { return now }

	code, err := store.Issue("a@x.com")
	require.NoError(t, err)

	// Сдвигаем часы за пределы 5-минутного окна
	now = now.Add(6 * time.Minute)

	assert.ErrorIs(t, store.Validate("a@x.com", code), domain.ErrOTPExpired)

	// Истекшая запись удалена при первой же проверке
	assert.ErrorIs(t, store.Validate("a@x.com", code), domain.ErrOTPNotFound)
	_, ok := store.Peek("a@x.com")
	assert.False(t, ok)
}

func TestMemoryStoreDiscardIfExpired(t *testing.T) {
	store := NewMemoryStore()

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.Issue("a@x.com")
	require.NoError(t, err)

	// Срок еще не вышел - запись остается
	store.DiscardIfExpired("a@x.com")
	_, ok := store.Peek("a@x.com")
	assert.True(t, ok)

	now = now.Add(6 * time.Minute)

	store.DiscardIfExpired("a@x.com")
	_, ok = store.Peek("a@x.com")
	assert.False(t, ok)
}

func TestMemoryStoreTooManyAttempts(t *testing.T) {
	store := NewMemoryStore()

	code, err := store.Issue("a@x.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < otpMaxAttempts-1; i++ {
		assert.ErrorIs(t, store.Validate("a@x.com", wrong), domain.ErrOTPMismatch)
	}

	assert.ErrorIs(t, store.Validate("a@x.com", wrong), domain.ErrOTPTooManyAttempts)

	// После исчерпания попыток даже верный код не проходит
	assert.ErrorIs(t, store.Validate("a@x.com", code), domain.ErrOTPNotFound)
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Regexp(t, codePattern, code)
		require.GreaterOrEqual(t, code, "100000")
		require.LessOrEqual(t, code, "999999")
	}
}
