// Пакет menustore — хранилище состояний бокового меню между
// переподключениями WebSocket. LRU с TTL поверх hashicorp/golang-lru/v2/expirable,
// ключ — идентификатор сессии меню (UUID, генерируется страницей консоли).
package menustore

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
)

// Prometheus-метрики хранилища.
var (
	restoreHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ac_menu_store_hits_total",
		Help: "Количество восстановлений состояния меню из хранилища.",
	})
	restoreMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ac_menu_store_misses_total",
		Help: "Количество подключений меню без сохранённого состояния.",
	})
)

// Store — LRU-хранилище снимков меню с автоматическим TTL.
// Каждый экземпляр консоли держит собственное in-memory хранилище.
type Store struct {
	cache *expirable.LRU[uuid.UUID, sidemenu.Snapshot]
}

// New создаёт хранилище с указанным максимальным размером и TTL.
func New(maxSize int, ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[uuid.UUID, sidemenu.Snapshot](maxSize, nil, ttl),
	}
}

// Load возвращает сохранённый снимок сессии.
func (s *Store) Load(id uuid.UUID) (sidemenu.Snapshot, bool) {
	snap, ok := s.cache.Get(id)
	if ok {
		restoreHitsTotal.Inc()
		return snap, true
	}
	restoreMissesTotal.Inc()
	return sidemenu.Snapshot{}, false
}

// Save сохраняет или обновляет снимок сессии.
func (s *Store) Save(id uuid.UUID, snap sidemenu.Snapshot) {
	s.cache.Add(id, snap)
}

// Delete удаляет снимок сессии.
func (s *Store) Delete(id uuid.UUID) {
	s.cache.Remove(id)
}

// Len возвращает количество сохранённых снимков.
func (s *Store) Len() int {
	return s.cache.Len()
}
