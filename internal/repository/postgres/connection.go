package postgres

import (
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in migration order.
var Models = []any{
	&domain.User{},
	&domain.UserVerification{},
	&domain.Board{},
	&domain.BoardMember{},
	&domain.BoardColumn{},
	&domain.BoardCard{},
	&domain.BoardCardComment{},
	&domain.UserInvite{},
	&domain.UserNotification{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Board:        NewBoardRepository(db),
		Member:       NewMemberRepository(db),
		Column:       NewColumnRepository(db),
		Card:         NewCardRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		Invite:       NewInviteRepository(db),
		Verification: NewVerificationRepository(db),
	}
}
