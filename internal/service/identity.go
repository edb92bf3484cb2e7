package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zitadel/zitadel-go/v3/pkg/client"
	v2 "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user/v2"
	"github.com/zitadel/zitadel-go/v3/pkg/zitadel"

	"otp-service/internal/domain"
)

// identityCallTimeout - ограничение на один вызов identity провайдера
const identityCallTimeout = 10 * time.Second

// IdentityService - клиент Zitadel: поиск пользователя по email и смена пароля.
// Учетные записи и пароли целиком принадлежат Zitadel, здесь только вызовы.
type IdentityService struct {
	client *client.Client
}

// NewIdentityService создает клиент Zitadel по переменным окружения.
// Если учетные данные не заданы или недоступны, сервис стартует в
// деградированном режиме: методы возвращают ErrIdentityUnavailable,
// но процесс не падает.
func NewIdentityService() *IdentityService {
	ctx := context.Background()

	zitadelDomain := os.Getenv("ZITADEL_DOMAIN")
	if zitadelDomain == "" {
		log.Printf("Warning: ZITADEL_DOMAIN is not set, identity provider disabled")
		return &IdentityService{}
	}

	// Проверяем наличие PAT (Personal Access Token) или JWT key file
	pat := os.Getenv("ACCES_TOKEN_SERVICE_ACCOUNT")
	keyPath := os.Getenv("ZITADEL_KEY_PATH")

	if pat == "" && keyPath == "" {
		log.Printf("Warning: neither ACCES_TOKEN_SERVICE_ACCOUNT nor ZITADEL_KEY_PATH is set, identity provider disabled")
		return &IdentityService{}
	}

	if pat == "" {
		if _, err := os.Stat(keyPath); err != nil {
			log.Printf("Warning: zitadel key file %s is not readable: %v, identity provider disabled", keyPath, err)
			return &IdentityService{}
		}
	}

	// Для localhost используем insecure соединение
	var zitadelInstance *zitadel.Zitadel
	if zitadelDomain == "homelab.localhost" || zitadelDomain == "localhost" {
		zitadelInstance = zitadel.New(zitadelDomain, zitadel.WithInsecure("8080"))
		log.Printf("Using insecure connection for %s", zitadelDomain)
	} else {
		zitadelInstance = zitadel.New(zitadelDomain)
	}

	// Выбираем метод аутентификации
	var authOption client.Option
	if pat != "" {
		authOption = client.WithAuth(client.PAT(pat))
		log.Printf("Using Personal Access Token authentication")
	} else {
		authOption = client.WithAuth(client.DefaultServiceUserAuthentication(
			keyPath,
			client.ScopeZitadelAPI(),
		))
		log.Printf("Using JWT key file authentication")
	}

	zitadelClient, err := client.New(ctx, zitadelInstance, authOption)
	if err != nil {
		log.Printf("Warning: failed to create zitadel client: %v, identity provider disabled", err)
		return &IdentityService{}
	}

	log.Printf("Zitadel client initialized for domain: %s", zitadelDomain)

	return &IdentityService{client: zitadelClient}
}

// UserIDByEmail ищет пользователя по email адресу.
// Возвращает domain.ErrUserNotFound, только когда провайдер ответил и
// пользователя точно нет; любая другая ошибка - это ошибка вызова.
func (s *IdentityService) UserIDByEmail(ctx context.Context, email string) (string, error) {
	if s.client == nil {
		return "", domain.ErrIdentityUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, identityCallTimeout)
	defer cancel()

	listResp, err := s.client.UserServiceV2().ListUsers(ctx, &v2.ListUsersRequest{
		Queries: []*v2.SearchQuery{
			{
				Query: &v2.SearchQuery_EmailQuery{
					EmailQuery: &v2.EmailQuery{
						EmailAddress: email,
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to search user by email: %w", err)
	}

	if len(listResp.GetResult()) == 0 {
		return "", domain.ErrUserNotFound
	}

	userID := listResp.GetResult()[0].GetUserId()
	log.Printf("User found by email %s: UserID=%s", email, userID)

	return userID, nil
}

// UpdatePassword устанавливает новый пароль пользователю в Zitadel
func (s *IdentityService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if s.client == nil {
		return domain.ErrIdentityUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, identityCallTimeout)
	defer cancel()

	_, err := s.client.UserServiceV2().SetPassword(ctx, &v2.SetPasswordRequest{
		UserId: userID,
		NewPassword: &v2.Password{
			Password:       newPassword,
			ChangeRequired: false,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	log.Printf("Password updated for user: %s", userID)
	return nil
}
