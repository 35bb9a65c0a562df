package domain

import "encoding/json"

// InternalCommand - команда клиента, уже разобранная для движка.
type InternalCommand struct {
	Action  ActionType      // Число, а не строка
	Token   Handle          // Кто прислал (игрок)
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
