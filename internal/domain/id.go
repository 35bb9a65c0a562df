package domain

import (
	"fmt"
	"strconv"
)

// Handle - стабильный, невладеющий идентификатор актора в мире.
// Значение упаковано в uint64:
//
//	[ Type (8) | Entry (24) | Counter (32) ]
//
// Handle переживает деспаун актора: резолв просто начинает возвращать false.
type Handle uint64

// NilHandle - пустая ссылка (аналог nil).
const NilHandle Handle = 0

// ObjectType - тип объекта мира.
type ObjectType uint8

const (
	TypeNone ObjectType = iota
	TypePlayer
	TypeCreature
)

// Entry - идентификатор шаблона существа (creature template).
type Entry uint32

// Конфигурация битов
const (
	bitsCounter = 32
	bitsEntry   = 24
	bitsType    = 8

	shiftEntry = bitsCounter
	shiftType  = bitsCounter + bitsEntry

	maskCounter = (1 << bitsCounter) - 1
	maskEntry   = (1 << bitsEntry) - 1
	maskType    = (1 << bitsType) - 1
)

// PackHandle создает Handle из компонентов.
func PackHandle(t ObjectType, entry Entry, counter uint32) Handle {
	id := uint64(counter) & maskCounter
	id |= (uint64(entry) & maskEntry) << shiftEntry
	id |= (uint64(t) & maskType) << shiftType
	return Handle(id)
}

func (h Handle) Type() ObjectType {
	return ObjectType((h >> shiftType) & maskType)
}

func (h Handle) Entry() Entry {
	return Entry((h >> shiftEntry) & maskEntry)
}

func (h Handle) Counter() uint32 {
	return uint32(h & maskCounter)
}

// IsEmpty сообщает, что ссылка не инициализирована.
func (h Handle) IsEmpty() bool {
	return h == NilHandle
}

// MarshalJSON сериализует Handle в строку, так как JS теряет точность для больших int64
func (h Handle) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(h), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (h *Handle) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*h = Handle(val)
	return nil
}

// Key - десятичная строка для JSON, ключей хаба и query-параметров.
// Обратное преобразование - ParseHandle.
func (h Handle) Key() string {
	return strconv.FormatUint(uint64(h), 10)
}

// ParseHandle разбирает десятичное представление (query-параметры, токены).
func ParseHandle(s string) (Handle, error) {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilHandle, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return Handle(val), nil
}

// String для логов: [Type:Entry:Counter]
func (h Handle) String() string {
	return fmt.Sprintf("[%d:%d:%d]", h.Type(), h.Entry(), h.Counter())
}
