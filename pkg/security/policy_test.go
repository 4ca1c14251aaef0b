package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты политики меняют окружение через t.Setenv — без t.Parallel().

const strongSecret = "0123456789abcdef0123456789abcdef" // 32 символа

func clearPolicyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENFORCE_STRICT_SECURITY", "")
	t.Setenv("APP_ENV", "")
}

func TestStrictMode_FlagAndEnv(t *testing.T) {
	clearPolicyEnv(t)
	require.False(t, StrictMode())

	for _, v := range []string{"1", "true", "YES", "On"} {
		t.Setenv("ENFORCE_STRICT_SECURITY", v)
		require.True(t, StrictMode(), "flag %q", v)
	}

	t.Setenv("ENFORCE_STRICT_SECURITY", "0")
	for _, env := range []string{"prod", "production", "staging", "Production"} {
		t.Setenv("APP_ENV", env)
		require.True(t, StrictMode(), "env %q", env)
	}

	t.Setenv("APP_ENV", "development")
	require.False(t, StrictMode())
	t.Setenv("APP_ENV", "local")
	require.False(t, StrictMode())
}

// TestValidateRuntime_OutsideStrict_AcceptsDefaults — вне strict mode
// development-дефолты принимаются молча.
func TestValidateRuntime_OutsideStrict_AcceptsDefaults(t *testing.T) {
	clearPolicyEnv(t)

	err := ValidateRuntime(DevUserSecret, DevInternalSecret, &Hasher{scheme: SchemePBKDF2})
	require.NoError(t, err)
}

// TestValidateRuntime_Strict_RejectsDevDefaults — дефолтный секрет в strict
// mode фатален до выпуска первого токена.
func TestValidateRuntime_Strict_RejectsDevDefaults(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv("ENFORCE_STRICT_SECURITY", "1")

	err := ValidateRuntime(DevUserSecret, strongSecret, NewHasher())
	require.ErrorIs(t, err, ErrWeakSecret)
	require.Contains(t, err.Error(), "JWT_SECRET")

	err = ValidateRuntime(strongSecret, DevInternalSecret, NewHasher())
	require.ErrorIs(t, err, ErrWeakSecret)
	require.Contains(t, err.Error(), "INTERNAL_SERVICE_SECRET")
}

func TestValidateRuntime_Strict_RejectsShortSecrets(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv("APP_ENV", "staging")

	err := ValidateRuntime(strings.Repeat("a", 31), strongSecret, NewHasher())
	require.ErrorIs(t, err, ErrWeakSecret)

	err = ValidateRuntime(strongSecret, strings.Repeat("b", 31), NewHasher())
	require.ErrorIs(t, err, ErrWeakSecret)

	require.NoError(t, ValidateRuntime(strongSecret, strongSecret, NewHasher()))
}

// TestValidateRuntime_Strict_RejectsFallbackHasher — запасная схема
// хэширования в strict mode фатальна; nil-хэшер пропускает проверку схемы.
func TestValidateRuntime_Strict_RejectsFallbackHasher(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv("APP_ENV", "prod")

	err := ValidateRuntime(strongSecret, strongSecret, &Hasher{scheme: SchemePBKDF2})
	require.ErrorIs(t, err, ErrHashingBackendUnavailable)

	require.NoError(t, ValidateRuntime(strongSecret, strongSecret, nil))
}

// TestValidateRuntime_Idempotent — повторные вызовы дают тот же результат.
func TestValidateRuntime_Idempotent(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv("ENFORCE_STRICT_SECURITY", "true")

	for i := 0; i < 3; i++ {
		require.NoError(t, ValidateRuntime(strongSecret, strongSecret, NewHasher()))
		require.ErrorIs(t, ValidateRuntime(DevUserSecret, strongSecret, nil), ErrWeakSecret)
	}
}

func TestMustValidateRuntime_PanicsInStrict(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv("ENFORCE_STRICT_SECURITY", "1")

	require.Panics(t, func() {
		MustValidateRuntime(DevUserSecret, DevInternalSecret, nil)
	})
}
