package security

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrWeakSecret — в strict mode секрет совпадает с опубликованным
	// development-дефолтом или короче минимума. Фатальная ошибка старта,
	// не runtime-восстановимая.
	ErrWeakSecret = errors.New("weak secret rejected")

	// ErrHashingBackendUnavailable — в strict mode хэшер работает на
	// запасной схеме вместо argon2id. Фатальная ошибка старта.
	ErrHashingBackendUnavailable = errors.New("password hashing backend unavailable")
)

// minSecretLen — минимальная длина секрета подписи в strict mode.
const minSecretLen = 32

// strictEnvs — окружения, в которых strict mode включается автоматически.
var strictEnvs = map[string]struct{}{
	"prod":       {},
	"production": {},
	"staging":    {},
}

// StrictMode — включён ли strict mode: явный флаг ENFORCE_STRICT_SECURITY
// или production-подобное значение APP_ENV.
func StrictMode() bool {
	if truthy(os.Getenv("ENFORCE_STRICT_SECURITY")) {
		return true
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	_, ok := strictEnvs[env]
	return ok
}

// ValidateRuntime — идемпотентная startup-проверка политики безопасности.
// Вызывается до выпуска/проверки первого токена (в main каждого сервиса);
// повторные вызовы безопасны. Вне strict mode дефолты принимаются молча.
//
// В strict mode фатальны:
//   - пользовательский секрет, равный DevUserSecret или короче 32 символов;
//   - внутренний секрет, равный DevInternalSecret или короче 32 символов;
//   - хэшер на запасной схеме (hasher может быть nil, если сервис
//     не работает с паролями — тогда проверка схемы пропускается).
func ValidateRuntime(userSecret, internalSecret string, hasher *Hasher) error {
	const op = "security.policy.ValidateRuntime"

	if !StrictMode() {
		return nil
	}

	if userSecret == DevUserSecret {
		return fmt.Errorf("%s: JWT_SECRET uses development default: %w", op, ErrWeakSecret)
	}
	if len(userSecret) < minSecretLen {
		return fmt.Errorf("%s: JWT_SECRET shorter than %d characters: %w", op, minSecretLen, ErrWeakSecret)
	}

	if internalSecret == DevInternalSecret {
		return fmt.Errorf("%s: INTERNAL_SERVICE_SECRET uses development default: %w", op, ErrWeakSecret)
	}
	if len(internalSecret) < minSecretLen {
		return fmt.Errorf("%s: INTERNAL_SERVICE_SECRET shorter than %d characters: %w", op, minSecretLen, ErrWeakSecret)
	}

	if hasher != nil && hasher.Scheme() != SchemeArgon2id {
		return fmt.Errorf("%s: active scheme %q: %w", op, hasher.Scheme(), ErrHashingBackendUnavailable)
	}

	return nil
}

// MustValidateRuntime — обёртка над ValidateRuntime с panic.
// Сервис, пропустивший проверку, стартовать не должен.
func MustValidateRuntime(userSecret, internalSecret string, hasher *Hasher) {
	if err := ValidateRuntime(userSecret, internalSecret, hasher); err != nil {
		panic(err)
	}
}

// truthy — разбор булевых env-флагов: 1/true/yes/on.
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
