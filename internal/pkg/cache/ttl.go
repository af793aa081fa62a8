package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTLCache - потокобезопасный in-memory кеш с TTL и ограничением размера.
// Создается по одному экземпляру на тип кешируемого значения (геокодинг,
// результаты поиска) и передается в use case при инициализации.
type TTLCache[T any] struct {
	ttl     time.Duration
	maxSize int

	mu    sync.Mutex
	store map[string]entry[T]

	// now позволяет подменить часы в тестах; time.Time несет
	// монотонную составляющую, поэтому сравнения не зависят от
	// перевода системного времени
	now func() time.Time
}

// New создает пустой кеш с заданным TTL и максимальным числом записей
func New[T any](ttl time.Duration, maxSize int) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:     ttl,
		maxSize: maxSize,
		store:   make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get возвращает значение, если оно есть и не истекло.
// Истекшая запись удаляется при обращении. Отсутствие значения -
// нормальный результат, не ошибка.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.store[key]
	if !ok {
		return zero, false
	}
	if ent.expiresAt.Before(now) {
		delete(c.store, key)
		return zero, false
	}
	return ent.value, true
}

// Set сохраняет значение под ключом с expiresAt = now + ttl, перезаписывая
// существующую запись. Перед вставкой удаляются все истекшие записи; если
// после этого кеш все еще полон, вытесняется ровно одна запись - ближайшая
// к истечению. После любого Set выполняется len(store) <= maxSize.
func (c *TTLCache[T]) Set(key string, value T) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpired(now)
	if len(c.store) >= c.maxSize {
		c.evictClosestToExpiry()
	}
	c.store[key] = entry[T]{value: value, expiresAt: now.Add(c.ttl)}
}

// Len возвращает текущее число записей (включая еще не вычищенные истекшие)
func (c *TTLCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// purgeExpired удаляет все истекшие записи. Вызывающий держит mu.
func (c *TTLCache[T]) purgeExpired(now time.Time) {
	for key, ent := range c.store {
		if ent.expiresAt.Before(now) {
			delete(c.store, key)
		}
	}
}

// evictClosestToExpiry вытесняет запись с наименьшим expiresAt.
// При едином TTL это самая старая запись, но политика сформулирована
// через срок истечения, чтобы остаться корректной при разных TTL.
// Вызывающий держит mu.
func (c *TTLCache[T]) evictClosestToExpiry() {
	if len(c.store) == 0 {
		return
	}

	var victim string
	var victimExpiresAt time.Time
	first := true
	for key, ent := range c.store {
		if first || ent.expiresAt.Before(victimExpiresAt) {
			victim = key
			victimExpiresAt = ent.expiresAt
			first = false
		}
	}
	delete(c.store, victim)
}

// Key строит канонический ключ кеша из частей запроса. Нормализация
// частей (нижний регистр, фиксированная точность координат) - обязанность
// вызывающего: семантически одинаковые запросы должны давать один ключ.
func Key(parts ...interface{}) string {
	strs := make([]string, len(parts))
	for i, part := range parts {
		strs[i] = fmt.Sprint(part)
	}
	return strings.Join(strs, "|")
}
