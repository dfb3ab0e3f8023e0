package domain

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

type UserInvite struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	BoardID      int64     `json:"boardId" gorm:"not null;index"`
	SenderUserID int64     `json:"senderUserId" gorm:"not null;index"`
	Email        string    `json:"email" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	ExpiresAt    time.Time `json:"expiresAt" gorm:"not null"`
	IsAccepted   bool      `json:"isAccepted" gorm:"not null;default:false"`
	IsUsed       bool      `json:"isUsed" gorm:"not null;default:false"`

	Board  *Board `json:"board,omitempty" gorm:"foreignKey:BoardID"`
	Sender *User  `json:"sender,omitempty" gorm:"foreignKey:SenderUserID"`
}

// Status derives the lifecycle state. Expired is never stored: it is a
// pending invite read after ExpiresAt.
func (i *UserInvite) Status(now time.Time) InviteStatus {
	switch {
	case i.IsUsed && i.IsAccepted:
		return InviteStatusAccepted
	case i.IsUsed:
		return InviteStatusDeclined
	case !now.Before(i.ExpiresAt):
		return InviteStatusExpired
	default:
		return InviteStatusPending
	}
}

// InvitePreview is what an invitation link reveals before anyone signs in.
type InvitePreview struct {
	BoardTitle string       `json:"boardTitle"`
	SenderName string       `json:"senderName"`
	Email      string       `json:"email"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	Status     InviteStatus `json:"status"`
}
