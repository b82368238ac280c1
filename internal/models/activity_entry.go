package models

import "time"

const DayLayout = "2006-01-02"

type ActivityEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Owner       string    `gorm:"not null;uniqueIndex:uidx_logs_owner_date_slot" json:"owner"`
	Date        string    `gorm:"type:text;not null;uniqueIndex:uidx_logs_owner_date_slot" json:"date"`
	TimeSlot    string    `gorm:"column:time_slot;not null;uniqueIndex:uidx_logs_owner_date_slot" json:"time_slot"`
	Description string    `gorm:"not null" json:"description"`
	Result      string    `gorm:"not null" json:"result"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (ActivityEntry) TableName() string {
	return "logs"
}
