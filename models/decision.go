package models

import "time"

// Action действие оператора над регистрацией
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// ActionForStatus сопоставляет целевой статус действию журнала
func ActionForStatus(status Status) Action {
	if status == StatusApproved {
		return ActionApprove
	}
	return ActionReject
}

// Decision запись журнала модерации
type Decision struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Action    Action    `gorm:"type:varchar(16);not null" json:"action"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	RequestID string    `gorm:"type:varchar(64)" json:"request_id,omitempty"`
}

func (Decision) TableName() string {
	return "moderation_decisions"
}

// LatestDecision последнее решение по пользователю
type LatestDecision struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	UserID    string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Action    Action    `gorm:"type:varchar(16);not null" json:"action"`
}

func (LatestDecision) TableName() string {
	return "latest_decisions"
}

// DecisionStats сводка по журналу
type DecisionStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Deleted  int64 `json:"deleted"`
}
