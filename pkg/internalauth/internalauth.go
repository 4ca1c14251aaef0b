// internalauth — короткоживущие service-to-service токены, ограждающие
// east-west трафик между сервисами.
//
// Основные аспекты:
//   - Токен несёт {iss, aud, type:"internal_service", iat, exp} и подписан
//     отдельным секретом (INTERNAL_SERVICE_SECRET), независимым от секрета
//     пользовательских токенов: компрометация одного не раскрывает другой.
//   - TTL по умолчанию 60 секунд: токен чеканится заново на каждый исходящий
//     вызов и не кэшируется, поэтому механизм отзыва не нужен.
//   - Каждый принимающий сервис валидирует токен самостоятельно, указывая
//     собственное имя как ожидаемый audience.
package internalauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pribylovaa/go-music-stream/pkg/secrets"
	"github.com/pribylovaa/go-music-stream/pkg/security"
)

// TokenTypeInternal — значение claim'а "type" service-токена.
const TokenTypeInternal = "internal_service"

var (
	// ErrInvalidServiceToken — битый формат, неверная подпись или истёкший
	// срок. Транспорт: HTTP 401.
	ErrInvalidServiceToken = errors.New("invalid internal service token")

	// ErrWrongTokenType — claim "type" не равен "internal_service".
	// Транспорт: HTTP 401.
	ErrWrongTokenType = errors.New("invalid internal service token type")

	// ErrMissingIssuer — в токене пустой claim "iss". Транспорт: HTTP 401.
	ErrMissingIssuer = errors.New("internal service token missing issuer")

	// ErrAudienceMismatch — токен выписан для другого сервиса-адресата.
	// Транспорт: HTTP 403.
	ErrAudienceMismatch = errors.New("internal service token audience mismatch")
)

// Config — параметры выпуска и валидации service-токенов.
type Config struct {
	Secret string
	TTL    time.Duration
}

type envConfig struct {
	TTLSeconds int `env:"INTERNAL_TOKEN_TTL_SECONDS" env-default:"60"`
}

// LoadConfig собирает Config из окружения: секрет — через pkg/secrets
// (INTERNAL_SERVICE_SECRET / INTERNAL_SERVICE_SECRET_FILE), TTL — через
// cleanenv с дефолтом 60s.
func LoadConfig() (Config, error) {
	const op = "internalauth.LoadConfig"

	secret, err := secrets.Resolve("INTERNAL_SERVICE_SECRET", security.DevInternalSecret)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return Config{
		Secret: secret,
		TTL:    time.Duration(ec.TTLSeconds) * time.Second,
	}, nil
}

// ServiceClaims — полезная нагрузка service-токена.
type ServiceClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// ServiceTokens выпускает и проверяет service-токены.
type ServiceTokens struct {
	cfg Config
}

// New создаёт новый экземпляр ServiceTokens.
func New(cfg Config) *ServiceTokens {
	return &ServiceTokens{cfg: cfg}
}

// NewServiceToken чеканит токен от имени issuer для сервиса audience.
func (s *ServiceTokens) NewServiceToken(issuer, audience string) (string, error) {
	const op = "internalauth.NewServiceToken"

	now := time.Now().UTC()
	claims := ServiceClaims{
		TokenType: TokenTypeInternal,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ParseServiceToken проверяет подпись, срок, audience, claim type и issuer.
// Несовпадение audience отличимо от прочих отказов: принимающая сторона
// маппит его в 403, а не 401.
func (s *ServiceTokens) ParseServiceToken(token, expectedAudience string) (*ServiceClaims, error) {
	const op = "internalauth.ParseServiceToken"

	var claims ServiceClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(tok *jwt.Token) (interface{}, error) {
			if tok.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}

			return []byte(s.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(expectedAudience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalidAudience) {
			return nil, fmt.Errorf("%s: %w", op, ErrAudienceMismatch)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidServiceToken)
	}

	if !parsed.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidServiceToken)
	}

	if claims.TokenType != TokenTypeInternal {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}

	if claims.Issuer == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingIssuer)
	}

	return &claims, nil
}
