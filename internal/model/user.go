package model

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Document     string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"document"` // DNI
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'ipress'"     json:"role"` // admin | coordinator | ipress
	IpressID     *string `gorm:"type:uuid"                                      json:"ipress_id,omitempty"` // ipress 角色归属机构
	VersionedModel

	// 关联
	Ipress *Ipress `gorm:"foreignKey:IpressID;references:IpressID" json:"ipress,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
