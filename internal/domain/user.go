package domain

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Realname  string    `json:"realname" form:"realname"`
	Email     string    `gorm:"size:200;uniqueIndex" json:"email" form:"email"`
	Password  string    `json:"-" form:"password"`
	Level     string    `gorm:"size:20" json:"level" form:"level"`
	Status    string    `gorm:"size:20" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}

type AuditLog struct {
	ID       int64     `gorm:"primaryKey" json:"id,string"`
	UserName string    `gorm:"size:200" json:"user_name"`
	UserIp   string    `gorm:"size:64" json:"user_ip"`
	Action   string    `gorm:"size:64" json:"action"`
	Desc     string    `gorm:"size:500" json:"desc"`
	OptTime  time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}
