package engine

import (
	"time"

	"scene-server/internal/content"
)

// Config хранит параметры запуска движка
type Config struct {
	// TickInterval - шаг игрового цикла инстанса.
	TickInterval time.Duration
	// Zone - ID зоны, которую поднимает сервис.
	Zone int
	// Catalog - каталог сцены. nil означает встроенный.
	Catalog *content.Catalog
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
		Zone:         130,
	}
}
