package model

import "time"

// FileStatus — статус файла в реестре.
type FileStatus string

const (
	// StatusAvailable — файл на месте, доступен для выдачи.
	StatusAvailable FileStatus = "available"
	// StatusCheckedOut — файл выдан на руки (есть открытая выдача).
	StatusCheckedOut FileStatus = "checked-out"
	// StatusArchived — файл в архиве.
	StatusArchived FileStatus = "archived"
)

// FileRecord — запись физического файла в реестре.
// id и rfidTag уникальны в пределах реестра. currentLocation
// соответствует последней записи LocationHistory файла.
type FileRecord struct {
	// ID — идентификатор записи
	ID string `json:"id"`
	// FileName — имя файла
	FileName string `json:"file_name"`
	// Department — подразделение-владелец
	Department Department `json:"department"`
	// RFIDTag — уникальная RFID-метка физического носителя
	RFIDTag string `json:"rfid_tag"`
	// FileType — тип файла (PDF, Excel, Word, ...)
	FileType string `json:"file_type"`
	// Size — человекочитаемый размер ("2.3 MB")
	Size string `json:"size"`
	// Tags — теги файла
	Tags []string `json:"tags"`
	// LastAccessed — время последнего обращения
	LastAccessed time.Time `json:"last_accessed"`
	// AccessedBy — кто обращался последним
	AccessedBy string `json:"accessed_by"`
	// Status — статус (available, checked-out, archived)
	Status FileStatus `json:"status"`
	// CurrentLocation — текущая локация (может быть nil)
	CurrentLocation *Location `json:"current_location,omitempty"`
}

// IsValidFileStatus проверяет, является ли строка допустимым статусом файла.
func IsValidFileStatus(s FileStatus) bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusArchived:
		return true
	default:
		return false
	}
}
