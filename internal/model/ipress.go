package model

// Ipress 医疗机构目录表 — 对应 ipress
// 外部机构目录的本地镜像，核心流程仅校验其存在性与启用状态
type Ipress struct {
	IpressID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ipress_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"` // RENIPRESS 编码
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	Network  string `gorm:"type:varchar(100)"                              json:"network,omitempty"` // 所属健康网络
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Ipress) TableName() string { return "ipress" }
