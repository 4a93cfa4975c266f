// Package keylock взаимное исключение по ключу: вызовы с разными ключами
// не блокируют друг друга.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyLock набор мьютексов, адресуемых int64-ключом.
// Запись создается по требованию и удаляется, когда ключ никто не держит и не ждет.
type KeyLock struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

func New() *KeyLock {
	return &KeyLock{entries: make(map[int64]*entry)}
}

// Lock ждет захвата ключа или отмены ctx.
// Возвращаемая функция освобождает ключ, повторный вызов ничего не делает.
func (l *KeyLock) Lock(ctx context.Context, key int64) (func(), error) {
	e := l.acquireEntry(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, nil
}

// TryLock захватывает ключ, только если он свободен прямо сейчас
func (l *KeyLock) TryLock(key int64) (func(), bool) {
	e := l.acquireEntry(key)

	select {
	case e.sem <- struct{}{}:
	default:
		l.releaseEntry(key, e)
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, true
}

// Len количество удерживаемых или ожидаемых ключей
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyLock) acquireEntry(key int64) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLock) releaseEntry(key int64, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
