package models

import (
	"strings"
)

// Status административное решение по регистрации
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid сообщает, входит ли статус в перечисление
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Settable сообщает, можно ли выставить статус оператором
func (s Status) Settable() bool {
	return s == StatusApproved || s == StatusRejected
}

// DocumentKind тип загруженного документа
type DocumentKind string

const (
	DocumentNone  DocumentKind = "none"
	DocumentImage DocumentKind = "image"
	DocumentPDF   DocumentKind = "pdf"
)

// UserRecord запись регистрации из удалённого API
type UserRecord struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`
	State     string `json:"state"`
	City      string `json:"city"`
	Address   string `json:"address"`
	IDType    string `json:"idType"`
	IDFileURL string `json:"idFileUrl,omitempty"`
	Status    Status `json:"status,omitempty"`
}

// DisplayStatus возвращает статус для отображения; пустой считается pending
func (u UserRecord) DisplayStatus() Status {
	if u.Status == "" {
		return StatusPending
	}
	return u.Status
}

// DocumentKind определяет тип документа по расширению пути
func (u UserRecord) DocumentKind() DocumentKind {
	path := strings.TrimSpace(u.IDFileURL)
	if path == "" {
		return DocumentNone
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return DocumentPDF
	}
	return DocumentImage
}

// DocumentURL склеивает origin API и относительный путь документа
func (u UserRecord) DocumentURL(origin string) string {
	if u.DocumentKind() == DocumentNone {
		return ""
	}
	path := strings.TrimSpace(u.IDFileURL)
	origin = strings.TrimRight(origin, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}

// PhoneDisplay номер телефона в международном виде
func (u UserRecord) PhoneDisplay() string {
	if u.Phone == "" {
		return ""
	}
	if strings.HasPrefix(u.Phone, "+") {
		return u.Phone
	}
	return "+" + u.Phone
}
