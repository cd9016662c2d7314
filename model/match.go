package model

// Connection is a directed link "user follows partner". The composite
// primary key keeps the pair unique so repeated inserts are no-ops.
type Connection struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PartnerID int64 `gorm:"primaryKey;autoIncrement:false" json:"partner_id"`
	User      User  `gorm:"not null; foreignKey:UserID" json:"-"`
	Partner   User  `gorm:"not null; foreignKey:PartnerID" json:"-"`
}

// Like records that a user liked a movie from the external catalog.
// MovieID is the catalog's own identifier, not a local one.
type Like struct {
	UserID  int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MovieID int64 `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	User    User  `gorm:"not null; foreignKey:UserID" json:"-"`
}
