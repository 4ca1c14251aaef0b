package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Значения claim'а "type". Типы не взаимозаменяемы: access-токен нельзя
// предъявить как refresh и наоборот, даже при валидной подписи.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeStream  = "stream"
)

// AccessClaims — полезная нагрузка access-токена.
type AccessClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// RefreshClaims — полезная нагрузка refresh-токена; jti (RegisteredClaims.ID)
// служит ключом отзыва в реестре refresh-токенов.
type RefreshClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// StreamClaims — полезная нагрузка stream-токена: один пользователь,
// одна песня, короткий срок.
type StreamClaims struct {
	SongID    string `json:"song_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Tokens выпускает и проверяет пользовательские токены.
type Tokens struct {
	cfg Config
}

// NewTokens создаёт новый экземпляр Tokens.
func NewTokens(cfg Config) *Tokens {
	return &Tokens{cfg: cfg}
}

// AccessTTL возвращает срок жизни access-токена.
func (t *Tokens) AccessTTL() time.Duration {
	return t.cfg.AccessTTL
}

// StreamTTL возвращает срок жизни stream-токена по умолчанию.
func (t *Tokens) StreamTTL() time.Duration {
	return t.cfg.StreamTTL
}

// NewAccessToken выпускает access-токен {sub, role, type, iat, exp}.
func (t *Tokens) NewAccessToken(userID, role string) (string, error) {
	const op = "security.tokens.NewAccessToken"

	now := time.Now().UTC()
	claims := AccessClaims{
		Role:      role,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// NewRefreshToken выпускает refresh-токен со свежим jti и возвращает
// (токен, jti, expiresAt). Запись (jti, userID, expiresAt) в реестр
// refresh-токенов — ОБЯЗАТЕЛЬНЫЙ побочный эффект вызывающего: если запись
// не удалась, токен считается невыпущенным и не должен попасть клиенту.
func (t *Tokens) NewRefreshToken(userID, role string) (string, string, time.Time, error) {
	const op = "security.tokens.NewRefreshToken"

	now := time.Now().UTC()
	expiresAt := now.Add(t.cfg.RefreshTTL)
	jti := strings.ReplaceAll(uuid.NewString(), "-", "")

	claims := RefreshClaims{
		Role:      role,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, jti, expiresAt, nil
}

// NewStreamToken выпускает stream-токен на пару (userID, songID).
// ttl <= 0 означает TTL из конфигурации (STREAM_URL_TTL_SECONDS).
func (t *Tokens) NewStreamToken(userID, songID string, ttl time.Duration) (string, error) {
	const op = "security.tokens.NewStreamToken"

	if ttl <= 0 {
		ttl = t.cfg.StreamTTL
	}

	now := time.Now().UTC()
	claims := StreamClaims{
		SongID:    songID,
		TokenType: TokenTypeStream,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ParseAccess проверяет подпись/срок и claim type="access".
func (t *Tokens) ParseAccess(token string) (*AccessClaims, error) {
	const op = "security.tokens.ParseAccess"

	var claims AccessClaims
	if err := t.parse(token, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTokenType)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}

	return &claims, nil
}

// ParseRefresh проверяет подпись/срок и claim type="refresh".
// Статус jti в реестре (отозван/истёк) проверяет вызывающий: реестр,
// а не встроенный exp, является источником истины об отзыве.
func (t *Tokens) ParseRefresh(token string) (*RefreshClaims, error) {
	const op = "security.tokens.ParseRefresh"

	var claims RefreshClaims
	if err := t.parse(token, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTokenType)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &claims, nil
}

// ParseStream проверяет подпись/срок, claim type="stream", совпадение
// song_id с expectedSongID и наличие sub. Причины отказа различимы:
// вызывающий должен уметь ветвиться по ErrSongMismatch/ErrMissingSubject.
func (t *Tokens) ParseStream(token, expectedSongID string) (*StreamClaims, error) {
	const op = "security.tokens.ParseStream"

	var claims StreamClaims
	if err := t.parse(token, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != TokenTypeStream {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTokenType)
	}

	if claims.SongID != expectedSongID {
		return nil, fmt.Errorf("%s: %w", op, ErrSongMismatch)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}

	return &claims, nil
}

// parse — общая проверка подписи и сроков. Любая причина отказа
// (битый формат, чужая подпись, истёкший exp) схлопывается в ErrInvalidToken.
func (t *Tokens) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(tok *jwt.Token) (interface{}, error) {
			if tok.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}

			return []byte(t.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}

	return nil
}
