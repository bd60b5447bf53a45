package model

// User 可以通过邮箱密码注册，也可以由 Firebase 登录自动创建（此时 UID 非空、无密码）
// swagger:model User
type User struct {
	BaseModel
	UID          *string `gorm:"size:128;uniqueIndex" json:"uid,omitempty"`
	Email        *string `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"size:100" json:"-"`
	Name         string  `gorm:"size:100" json:"name"`
	Picture      string  `gorm:"size:512" json:"picture"`
}

func (User) TableName() string {
	return "users"
}

// EmailAddress 没有邮箱的第三方账号返回空串
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// NullableString 空串存为 NULL，唯一索引不会因多个空值冲突
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
