package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BoardCardComment struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	BoardCardID int64     `json:"boardCardId" gorm:"not null;index"`
	UserID      int64     `json:"userId" gorm:"not null"`
	Message     string    `json:"message" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	IsDeleted   bool      `json:"-" gorm:"not null;default:false"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:UserID"`
}

func (c *BoardCardComment) Lifecycle() Lifecycle { return lifecycleOf(!c.IsDeleted) }

type NotificationKind string

const (
	NotificationInviteReceived NotificationKind = "invite_received"
	NotificationInviteAccepted NotificationKind = "invite_accepted"
	NotificationCardComment    NotificationKind = "card_comment"
	NotificationMemberRemoved  NotificationKind = "member_removed"
)

type UserNotification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"userId" gorm:"not null;index"`
	Kind      NotificationKind `json:"kind" gorm:"not null;default:''"`
	Message   string           `json:"message" gorm:"not null"`
	Payload   datatypes.JSON   `json:"payload,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	IsDeleted bool             `json:"-" gorm:"not null;default:false"`
}

func (n *UserNotification) Lifecycle() Lifecycle { return lifecycleOf(!n.IsDeleted) }
