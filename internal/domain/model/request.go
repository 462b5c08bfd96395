package model

import "time"

// RequestType — тип пользовательской заявки.
type RequestType string

const (
	// RequestTypeIssue — заявка на выдачу файла.
	RequestTypeIssue RequestType = "issue"
	// RequestTypeUpload — заявка на загрузку нового файла.
	RequestTypeUpload RequestType = "upload"
)

// RequestStatus — статус заявки.
type RequestStatus string

const (
	// RequestStatusPending — заявка ожидает решения администратора.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved — заявка одобрена (терминальный статус).
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected — заявка отклонена (терминальный статус).
	RequestStatusRejected RequestStatus = "rejected"
)

// FileRequest — пользовательская заявка на выдачу или загрузку файла.
// Статус меняется ровно один раз: pending → approved или pending → rejected.
// Duration заполняется только для type=issue; CreatedBy, Tags и FileSize —
// только для type=upload.
type FileRequest struct {
	// ID — идентификатор заявки
	ID string `json:"id"`
	// Type — тип заявки (issue, upload)
	Type RequestType `json:"type"`
	// RFIDTag — RFID-метка файла
	RFIDTag string `json:"rfid_tag"`
	// FileName — имя файла
	FileName string `json:"file_name"`
	// RequestedBy — кто подал заявку
	RequestedBy string `json:"requested_by"`
	// Department — подразделение заявки
	Department Department `json:"department"`
	// RequestDate — время подачи заявки
	RequestDate time.Time `json:"request_date"`
	// Status — статус (pending, approved, rejected)
	Status RequestStatus `json:"status"`
	// Duration — срок выдачи, например "7 days" (только для issue)
	Duration string `json:"duration,omitempty"`
	// CreatedBy — автор документа (только для upload)
	CreatedBy string `json:"created_by,omitempty"`
	// Tags — теги нового файла (только для upload)
	Tags []string `json:"tags,omitempty"`
	// FileSize — человекочитаемый размер (только для upload)
	FileSize string `json:"file_size,omitempty"`
	// Notes — примечания (опционально)
	Notes string `json:"notes,omitempty"`
}

// IsValidRequestType проверяет, является ли строка допустимым типом заявки.
func IsValidRequestType(t RequestType) bool {
	return t == RequestTypeIssue || t == RequestTypeUpload
}

// IsValidRequestStatus проверяет, является ли строка допустимым статусом заявки.
func IsValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	default:
		return false
	}
}
