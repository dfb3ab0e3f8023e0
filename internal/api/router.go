package api

import (
	"log/slog"
	"net/http"

	"github.com/dom/kanban-board/internal/api/handlers"
	"github.com/dom/kanban-board/internal/api/middleware"
	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, clk clock.Clock, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, services.Verification)
	boardHandler := handlers.NewBoardHandler(services.Board, clk)
	cardHandler := handlers.NewCardHandler(services.Card, services.Comment, clk)
	inviteHandler := handlers.NewInviteHandler(services.Invite)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)

	requireAuth := middleware.Auth(services.Auth, services.Session, log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/verify-code", authHandler.SendVerifyCode)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Put("/password", authHandler.ChangePassword)
			})
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/token/{token}", inviteHandler.Preview)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", inviteHandler.Pending)
				r.Post("/{inviteID}/accept", inviteHandler.Accept)
				r.Post("/{inviteID}/decline", inviteHandler.Decline)
				r.Post("/token/{token}", inviteHandler.WorkByToken)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardHandler.List)
				r.Post("/", boardHandler.Create)
				r.Route("/{boardID}", func(r chi.Router) {
					r.Get("/", boardHandler.Get)
					r.Patch("/", boardHandler.Rename)
					r.Delete("/", boardHandler.Delete)
					r.Get("/columns", boardHandler.Columns)
					r.Post("/columns", boardHandler.AddColumn)
					r.Get("/members", boardHandler.Members)
					r.Delete("/members/{userID}", boardHandler.RemoveMember)
					r.Post("/members/{userID}/promote", boardHandler.Promote)
					r.Post("/leave", boardHandler.Leave)
					r.Post("/invites", inviteHandler.Create)
				})
			})

			r.Route("/columns/{columnID}", func(r chi.Router) {
				r.Patch("/", boardHandler.RenameColumn)
				r.Delete("/", boardHandler.DeleteColumn)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", cardHandler.Create)
				r.Route("/{cardID}", func(r chi.Router) {
					r.Get("/", cardHandler.Get)
					r.Put("/", cardHandler.Update)
					r.Delete("/", cardHandler.Delete)
					r.Post("/move", cardHandler.Move)
					r.Get("/comments", cardHandler.Comments)
					r.Post("/comments", cardHandler.AddComment)
				})
			})

			r.Delete("/comments/{commentID}", cardHandler.DeleteComment)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Delete("/", notificationHandler.DeleteAll)
				r.Delete("/{notificationID}", notificationHandler.Delete)
			})
		})
	})

	return r
}
