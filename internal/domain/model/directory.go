// Пакет model — доменные сущности Registry Module.
// Справочники (Department, Location) неизменяемы после seed,
// остальные сущности мутируются только через сервисный слой.
package model

// Department — подразделение, которому принадлежат файлы.
// Статический справочник, неизменяем после инициализации.
type Department struct {
	// ID — идентификатор подразделения
	ID string `json:"id"`
	// Name — название подразделения
	Name string `json:"name"`
	// DisplayColor — цветовая метка для отображения в UI
	DisplayColor string `json:"display_color"`
}

// Location — физическое место хранения файлов.
// Статический справочник, неизменяем после инициализации.
type Location struct {
	// ID — идентификатор локации
	ID string `json:"id"`
	// Name — название локации
	Name string `json:"name"`
	// Description — описание локации
	Description string `json:"description"`
	// Building — здание (опционально)
	Building string `json:"building,omitempty"`
	// Floor — этаж (опционально)
	Floor string `json:"floor,omitempty"`
	// Room — помещение (опционально)
	Room string `json:"room,omitempty"`
}
