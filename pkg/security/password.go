package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Схемы хэширования паролей. Предпочтительна memory-hard argon2id;
// pbkdf2-sha256 — запасной вариант для окружений, где self-test argon2
// не прошёл. В strict mode работа на запасной схеме фатальна (policy.go).
const (
	SchemeArgon2id = "argon2id"
	SchemePBKDF2   = "pbkdf2-sha256"
)

// Параметры argon2id (RFC 9106, second recommended option) и pbkdf2.
const (
	argonMemoryKiB = 64 * 1024
	argonTime      = 3
	argonThreads   = 2
	argonKeyLen    = 32

	pbkdf2Iterations = 600_000
	pbkdf2KeyLen     = 32

	saltLen = 16
)

// Hasher — односторонее хэширование паролей с выбором схемы один раз
// при инициализации (capability probe), без повторных проб.
type Hasher struct {
	scheme string
}

// NewHasher выполняет self-test предпочтительной схемы и фиксирует
// активную схему в поле, доступном через Scheme().
func NewHasher() *Hasher {
	h := &Hasher{scheme: SchemeArgon2id}
	if err := h.selfTest(); err != nil {
		h.scheme = SchemePBKDF2
	}

	return h
}

// Scheme возвращает активную схему; policy-гейт читает её детерминированно,
// без повторной пробы.
func (h *Hasher) Scheme() string {
	return h.scheme
}

// Hash хэширует пароль активной схемой. Пустой пароль допустим на этом
// уровне: политика сложности — забота вызывающего.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "security.password.Hash"

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	switch h.scheme {
	case SchemeArgon2id:
		key := argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKiB, argonThreads, argonKeyLen)
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version, argonMemoryKiB, argonTime, argonThreads,
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(key),
		), nil
	case SchemePBKDF2:
		key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
		return fmt.Sprintf("$pbkdf2-sha256$i=%d$%s$%s",
			pbkdf2Iterations,
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(key),
		), nil
	default:
		return "", fmt.Errorf("%s: unknown scheme %q", op, h.scheme)
	}
}

// Verify сравнивает пароль с digest в константное время. Схема берётся
// из префикса digest, а не из активной схемы: хэши, созданные на запасной
// схеме, продолжают проверяться после возврата на argon2id.
func (h *Hasher) Verify(password, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) < 5 || parts[0] != "" {
		return false
	}

	switch parts[1] {
	case "argon2id":
		if len(parts) != 6 {
			return false
		}

		var memory, time uint32
		var threads uint8
		if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
			return false
		}

		salt, err := base64.RawStdEncoding.DecodeString(parts[4])
		if err != nil {
			return false
		}
		want, err := base64.RawStdEncoding.DecodeString(parts[5])
		if err != nil {
			return false
		}

		got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
		return subtle.ConstantTimeCompare(got, want) == 1
	case "pbkdf2-sha256":
		if len(parts) != 5 {
			return false
		}

		var iterations int
		if _, err := fmt.Sscanf(parts[2], "i=%d", &iterations); err != nil || iterations <= 0 {
			return false
		}

		salt, err := base64.RawStdEncoding.DecodeString(parts[3])
		if err != nil {
			return false
		}
		want, err := base64.RawStdEncoding.DecodeString(parts[4])
		if err != nil {
			return false
		}

		got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
		return subtle.ConstantTimeCompare(got, want) == 1
	default:
		return false
	}
}

// selfTest — проба argon2id: хэшируем эталонную строку и проверяем её же.
func (h *Hasher) selfTest() error {
	const probe = "hasher-self-check"

	digest, err := h.Hash(probe)
	if err != nil {
		return err
	}

	if !h.Verify(probe, digest) {
		return fmt.Errorf("argon2id self-test mismatch")
	}

	return nil
}
