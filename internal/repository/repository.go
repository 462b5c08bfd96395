// Пакет repository — in-memory хранилища Registry Module.
//
// Персистентного стора у системы нет: всё состояние живёт в процессе,
// инициализируется из seed-данных при старте и теряется при остановке.
// Каждое хранилище защищено sync.RWMutex и отдаёт копии записей,
// чтобы вызывающий код не мог изменить состояние в обход сервисного слоя.
package repository

import "errors"

// Ошибки слоя хранилищ.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся id или RFID-метка).
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// copyTags возвращает копию среза тегов (nil остаётся nil).
func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
