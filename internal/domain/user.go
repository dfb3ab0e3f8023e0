package domain

import "time"

type User struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	FullName      string    `json:"fullName" gorm:"not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	Active        bool      `json:"-" gorm:"not null;default:true"`
	SecurityStamp string    `json:"-" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserVerification is a one-time code mailed to an address during
// registration. Only the newest unused, unexpired code for an email counts.
type UserVerification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	IsUsed    bool      `json:"isUsed" gorm:"not null;default:false"`
}

func (v *UserVerification) Usable(now time.Time) bool {
	return !v.IsUsed && now.Before(v.ExpiresAt)
}
