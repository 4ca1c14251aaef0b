// secrets — разрешение секретов процесса из окружения или смонтированного файла.
//
// Порядок источников для Resolve(name, fallback):
//  1. переменная окружения name (после TrimSpace, если непустая);
//  2. содержимое файла по пути из переменной name+"_FILE" (после TrimSpace);
//  3. fallback.
//
// Resolve детерминирован и не имеет побочных эффектов: повторный вызов с теми же
// переменными окружения возвращает то же значение. Единственный источник ошибок —
// чтение файла (нет файла/нет прав); такая ошибка считается фатальной ошибкой
// конфигурации и возвращается вызывающему без маскировки.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Resolve возвращает значение секрета name по описанному порядку источников.
func Resolve(name, fallback string) (string, error) {
	const op = "secrets.Resolve"

	if direct := strings.TrimSpace(os.Getenv(name)); direct != "" {
		return direct, nil
	}

	if path := strings.TrimSpace(os.Getenv(name + "_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%s: read %s_FILE: %w", op, name, err)
		}

		if value := strings.TrimSpace(string(raw)); value != "" {
			return value, nil
		}
	}

	return fallback, nil
}

// MustResolve — обёртка над Resolve с panic при ошибке чтения файла.
// Используется в main на старте сервиса, где ошибка конфигурации фатальна.
func MustResolve(name, fallback string) string {
	value, err := Resolve(name, fallback)
	if err != nil {
		panic(err)
	}

	return value
}
