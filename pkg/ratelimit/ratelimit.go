// ratelimit — наивный in-process sliding-window лимитер для api-gateway.
// Состояние живёт в памяти одного процесса и не реплицируется между
// инстансами; для горизонтального масштабирования лимиты действуют
// на инстанс.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter хранит таймстемпы событий по ключам.
type Limiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	now    func() time.Time
}

// New создаёт пустой лимитер.
func New() *Limiter {
	return &Limiter{
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow регистрирует событие по ключу и сообщает, укладывается ли оно
// в limit событий за скользящее окно window. Отказ события не регистрирует.
func (l *Limiter) Allow(key string, limit int, window time.Duration) bool {
	if limit <= 0 {
		return false
	}

	now := l.now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.events[key]
	// Отбрасываем события, выпавшие из окна.
	i := 0
	for i < len(q) && q[i].Before(cutoff) {
		i++
	}
	q = q[i:]

	if len(q) >= limit {
		l.events[key] = q
		return false
	}

	l.events[key] = append(q, now)
	return true
}
