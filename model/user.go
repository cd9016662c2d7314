package model

// User struct. ID is the Telegram user identifier assigned by the
// messaging gateway, so it is never generated here. Username is kept
// from the first /start and left untouched afterwards.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username string `gorm:"index" json:"username"`
}
