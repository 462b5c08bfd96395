package model

import "time"

// IssueStatus — статус выдачи файла.
type IssueStatus string

const (
	// IssueStatusIssued — файл выдан, возврат не зафиксирован.
	IssueStatusIssued IssueStatus = "issued"
	// IssueStatusReturned — файл возвращён, выдача закрыта.
	IssueStatusReturned IssueStatus = "returned"
	// IssueStatusOverdue — срок возврата истёк, файл не возвращён.
	IssueStatusOverdue IssueStatus = "overdue"
)

// FileIssue — выдача файла на руки.
// На один fileId одновременно существует не более одной открытой выдачи
// (issued или overdue). actualReturnDate заполнен тогда и только тогда,
// когда статус returned.
type FileIssue struct {
	// ID — идентификатор выдачи
	ID string `json:"id"`
	// FileID — идентификатор файла (слабая ссылка на FileRecord)
	FileID string `json:"file_id"`
	// FileName — имя файла на момент выдачи (денормализация для отображения)
	FileName string `json:"file_name"`
	// RFIDTag — RFID-метка файла
	RFIDTag string `json:"rfid_tag"`
	// IssuedTo — кому выдан файл
	IssuedTo string `json:"issued_to"`
	// IssuedBy — кто выдал файл
	IssuedBy string `json:"issued_by"`
	// IssueDate — время выдачи
	IssueDate time.Time `json:"issue_date"`
	// ExpectedReturnDate — ожидаемое время возврата (>= IssueDate)
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	// ActualReturnDate — фактическое время возврата (nil для открытой выдачи)
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	// IssueLocation — локация выдачи
	IssueLocation Location `json:"issue_location"`
	// ReturnLocation — локация возврата (nil для открытой выдачи)
	ReturnLocation *Location `json:"return_location,omitempty"`
	// Status — статус (issued, returned, overdue)
	Status IssueStatus `json:"status"`
	// Notes — примечания (опционально)
	Notes string `json:"notes,omitempty"`
}

// IsOpen сообщает, является ли выдача открытой (файл не возвращён).
// Просроченная выдача остаётся открытой: блокирует повторную выдачу
// и может быть закрыта возвратом.
func (i *FileIssue) IsOpen() bool {
	return i.Status == IssueStatusIssued || i.Status == IssueStatusOverdue
}

// LocationHistory — запись журнала перемещений файла.
// Append-only: записи никогда не изменяются и не удаляются.
// Последняя по movedDate запись определяет текущую локацию файла.
type LocationHistory struct {
	// ID — идентификатор записи
	ID string `json:"id"`
	// FileID — идентификатор файла
	FileID string `json:"file_id"`
	// Location — новая локация
	Location Location `json:"location"`
	// MovedBy — кто переместил файл
	MovedBy string `json:"moved_by"`
	// MovedDate — время перемещения
	MovedDate time.Time `json:"moved_date"`
	// PreviousLocation — предыдущая локация (nil для первой записи)
	PreviousLocation *Location `json:"previous_location,omitempty"`
	// Notes — примечания (опционально)
	Notes string `json:"notes,omitempty"`
}
