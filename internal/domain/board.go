package domain

import (
	"sort"
	"time"
)

type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleDeleted Lifecycle = "deleted"
)

func lifecycleOf(active bool) Lifecycle {
	if active {
		return LifecycleActive
	}
	return LifecycleDeleted
}

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEM"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMember:
		return true
	}
	return false
}

// CanManage reports whether the role may administer membership and delete the board.
func (r Role) CanManage() bool {
	return r == RoleOwner
}

type Board struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Active    bool      `json:"-" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`

	Creator *User `json:"-" gorm:"foreignKey:UserID"`
}

func (b *Board) Lifecycle() Lifecycle { return lifecycleOf(b.Active) }

type BoardMember struct {
	BoardID  int64 `json:"boardId" gorm:"primaryKey;autoIncrement:false"`
	UserID   int64 `json:"userId" gorm:"primaryKey;autoIncrement:false;index"`
	RoleCode Role  `json:"role" gorm:"not null;default:'MEM'"`
	Active   bool  `json:"-" gorm:"not null;default:true"`

	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Board *Board `json:"-" gorm:"foreignKey:BoardID"`
}

func (m *BoardMember) Lifecycle() Lifecycle { return lifecycleOf(m.Active) }

type BoardColumn struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	BoardID int64  `json:"boardId" gorm:"not null;index"`
	Title   string `json:"title" gorm:"not null"`
	Active  bool   `json:"-" gorm:"not null;default:true"`

	Board *Board `json:"-" gorm:"foreignKey:BoardID"`
}

func (c *BoardColumn) Lifecycle() Lifecycle { return lifecycleOf(c.Active) }

type BoardCard struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	BoardID        int64      `json:"boardId" gorm:"not null;index"`
	BoardColumnID  int64      `json:"boardColumnId" gorm:"not null;index"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description"`
	CreatedBy      int64      `json:"createdBy" gorm:"not null"`
	CreatedAt      time.Time  `json:"createdAt"`
	Active         bool       `json:"-" gorm:"not null;default:true"`
	Order          int        `json:"order" gorm:"column:sort_order;not null;default:0"`
	DueDate        *time.Time `json:"dueDate"`
	WarningDays    int        `json:"warningDays" gorm:"not null;default:0"`
	HighlightColor string     `json:"highlightColor"`
	AssigneeID     *int64     `json:"assigneeId"`

	Column *BoardColumn `json:"-" gorm:"foreignKey:BoardColumnID"`
}

func (c *BoardCard) Lifecycle() Lifecycle { return lifecycleOf(c.Active) }

type DueState string

const (
	DueStateNone    DueState = "none"
	DueStateOK      DueState = "ok"
	DueStateWarning DueState = "warning"
	DueStateOverdue DueState = "overdue"
)

// DueState classifies the card against now: overdue once the due date has
// passed, warning within WarningDays of it.
func (c *BoardCard) DueState(now time.Time) DueState {
	if c.DueDate == nil {
		return DueStateNone
	}
	due := *c.DueDate
	if now.After(due) {
		return DueStateOverdue
	}
	if c.WarningDays > 0 && !now.Before(due.AddDate(0, 0, -c.WarningDays)) {
		return DueStateWarning
	}
	return DueStateOK
}

// SortCards orders cards by Order, breaking ties by ID. Orders are sparse
// and may repeat after concurrent moves; the ID tie-break keeps rendering
// deterministic without renumbering siblings on write.
func SortCards(cards []*BoardCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Order != cards[j].Order {
			return cards[i].Order < cards[j].Order
		}
		return cards[i].ID < cards[j].ID
	})
}

// BoardSummary is a board as seen by one of its members.
type BoardSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ColumnWithCards is one column of the board view with its visible cards.
type ColumnWithCards struct {
	ID    int64        `json:"id"`
	Title string       `json:"title"`
	Cards []*BoardCard `json:"cards"`
}

// MemberView is a board member with the public part of the user record.
type MemberView struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
