package entity

import "sync/atomic"

// IDSource выдает уникальные идентификаторы врагов
type IDSource struct {
	next atomic.Uint64
}

// Next возвращает следующий идентификатор, начиная с 1
func (s *IDSource) Next() uint64 {
	return s.next.Add(1)
}
