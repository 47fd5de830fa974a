package services

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"
)

// TokenID — стабильный идентификатор токена для чёрного списка.
// Храним SHA-256, а не сам токен: ключ фиксированного размера и в
// памяти не лежат «живые» credentials.
func TokenID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RevocationStore — процессный чёрный список отозванных, но ещё не
// истёкших токенов. Чтение лок-фри (sync.Map): revoke виден следующему
// же запросу любого воркера. Не переживает рестарт процесса.
type RevocationStore struct {
	entries sync.Map // token id -> expiresAt (time.Time)
	now     func() time.Time
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{now: time.Now}
}

// Revoke — идемпотентная вставка.
func (s *RevocationStore) Revoke(tokenID string, expiresAt time.Time) {
	s.entries.Store(tokenID, expiresAt)
}

// IsRevoked возвращает true, пока токен в списке и его срок не вышел.
// Просроченную запись попутно выселяем: такой токен и так отвергнет
// проверка подписи/срока, членство в списке больше не нужно.
func (s *RevocationStore) IsRevoked(tokenID string) bool {
	v, ok := s.entries.Load(tokenID)
	if !ok {
		return false
	}
	expiresAt := v.(time.Time)
	if !s.now().Before(expiresAt) {
		s.entries.Delete(tokenID)
		return false
	}
	return true
}

// Sweep удаляет все записи с истёкшим сроком. Безопасен одновременно
// с Revoke/IsRevoked.
func (s *RevocationStore) Sweep() int {
	now := s.now()
	removed := 0
	s.entries.Range(func(key, value any) bool {
		if !now.Before(value.(time.Time)) {
			s.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// StartSweeper запускает фоновую низкочастотную чистку.
// Возвращает функцию останова.
func (s *RevocationStore) StartSweeper(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("[auth][revocation] sweep removed=%d", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
