// security — ядро доверия для пользовательских токенов:
// выпуск/проверка access/refresh/stream JWT, хэширование паролей
// и startup-проверка политики безопасности (strict mode).
//
// Основные аспекты:
//   - Все три типа токенов подписываются одним симметричным секретом (HS256)
//     и различаются только claim'ом "type"; проверка типа обязательна в каждом
//     Parse*, проверка одной подписи — дефект безопасности.
//   - Пакет не хранит состояние запроса; Tokens и Hasher безопасны для
//     конкурентного использования из разных горутин.
//   - Ошибки проверки возвращаются значениями и далее маппятся транспортом
//     на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pribylovaa/go-music-stream/pkg/secrets"
)

// Опубликованные development-дефолты секретов. В strict mode политика
// отвергает их как фатальную ошибку конфигурации (см. policy.go).
const (
	DevUserSecret     = "dev-secret-change-me"
	DevInternalSecret = "dev-internal-secret-change-me"
)

var (
	// ErrInvalidToken — токен не прошёл проверку: битый формат, неверная
	// подпись или истёкший срок. Причины намеренно не различаются, чтобы
	// не давать оракула подделки. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTokenType — подпись корректна, но claim "type" не совпадает
	// с ожидаемым для операции. Транспорт: HTTP 401.
	ErrInvalidTokenType = errors.New("invalid token type")

	// ErrSongMismatch — stream-токен выписан на другую песню. Транспорт: HTTP 401.
	ErrSongMismatch = errors.New("stream token song mismatch")

	// ErrMissingSubject — в токене отсутствует/пустой claim "sub". Транспорт: HTTP 401.
	ErrMissingSubject = errors.New("token missing subject")
)

// Config — параметры выпуска и валидации пользовательских токенов.
// Конструируется один раз на старте процесса и передаётся по ссылке;
// модульных глобалов с секретами нет.
type Config struct {
	// Secret — симметричный секрет подписи (JWT_SECRET / JWT_SECRET_FILE).
	Secret string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
	// RefreshTTL — срок жизни refresh-токена.
	RefreshTTL time.Duration
	// StreamTTL — срок жизни stream-токена; короткий, потому что токен
	// попадает в URL, который может оказаться в логах и кэшах.
	StreamTTL time.Duration
}

type envConfig struct {
	AccessMinutes int `env:"JWT_ACCESS_MINUTES" env-default:"30"`
	RefreshDays   int `env:"JWT_REFRESH_DAYS" env-default:"14"`
	StreamSeconds int `env:"STREAM_URL_TTL_SECONDS" env-default:"90"`
}

// LoadConfig собирает Config из окружения: секрет — через pkg/secrets
// (env или файл), TTL — через cleanenv с дефолтами 30m/14d/90s.
func LoadConfig() (Config, error) {
	const op = "security.LoadConfig"

	secret, err := secrets.Resolve("JWT_SECRET", DevUserSecret)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return Config{
		Secret:     secret,
		AccessTTL:  time.Duration(ec.AccessMinutes) * time.Minute,
		RefreshTTL: time.Duration(ec.RefreshDays) * 24 * time.Hour,
		StreamTTL:  time.Duration(ec.StreamSeconds) * time.Second,
	}, nil
}
