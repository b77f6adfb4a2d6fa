package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pyjuan91/Limira/internal/api/handlers"
	"github.com/pyjuan91/Limira/internal/api/middleware"
	"github.com/pyjuan91/Limira/internal/attachment"
	"github.com/pyjuan91/Limira/internal/auth"
	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/chat"
	"github.com/pyjuan91/Limira/internal/comment"
	"github.com/pyjuan91/Limira/internal/config"
	"github.com/pyjuan91/Limira/internal/disclosure"
	"github.com/pyjuan91/Limira/internal/draft"
	"github.com/pyjuan91/Limira/internal/message"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
	"github.com/pyjuan91/Limira/internal/stt"
	"github.com/pyjuan91/Limira/internal/user"
	"github.com/pyjuan91/Limira/internal/videosession"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	Config      *config.Config
	Store       store.Store
	Cache       *cache.Cache // optional
	Objects     storage.Storage
	AI          *patentai.Service
	Scheduler   disclosure.Scheduler
	Tokens      *auth.TokenIssuer
	Transcriber stt.Transcriber      // optional
	Models      handlers.ModelLister // optional
}

type Router struct {
	mux  *chi.Mux
	deps Deps
}

func NewRouter(deps Deps) *Router {
	return &Router{mux: chi.NewRouter(), deps: deps}
}

func (rt *Router) allowedOrigins() []string {
	app := rt.deps.Config.App
	if app.Environment == "production" {
		return []string{"*"}
	}
	return append([]string{app.FrontendURL}, middleware.DevOrigins...)
}

// Setup builds the handler tree. ctx bounds background middleware state.
func (rt *Router) Setup(ctx context.Context) http.Handler {
	r := rt.mux
	d := rt.deps

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.allowedOrigins()))

	rl := middleware.NewRateLimiter(ctx, 100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	checks := map[string]handlers.Pinger{"database": d.Store}
	if d.Cache != nil {
		checks["redis"] = d.Cache
	}
	health := handlers.NewHealthHandler(d.Config.App.Name, checks)
	r.Get("/", health.Root)
	r.Get("/health", health.Health)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	notifySvc := notification.NewService(d.Store)
	userSvc := user.NewService(d.Store, d.Tokens)
	disclosureSvc := disclosure.NewService(d.Store, d.Scheduler, notifySvc, d.Objects, d.AI)
	draftSvc := draft.NewService(d.Store, disclosureSvc)
	commentSvc := comment.NewService(d.Store, disclosureSvc, notifySvc)
	messageSvc := message.NewService(d.Store, disclosureSvc)
	fileSvc := attachment.NewService(d.Store, disclosureSvc, d.Objects, d.Config.Uploads)
	chatSvc := chat.NewService(d.AI, d.Store, disclosureSvc, d.Objects, d.Cache)
	patents := chat.NewPatentAnalyzer(d.AI)

	authn := auth.NewMiddleware(d.Tokens, d.Store)
	userH := handlers.NewUserHandler(userSvc)
	disclosureH := handlers.NewDisclosureHandler(disclosureSvc, draftSvc)
	collabH := handlers.NewCollabHandler(commentSvc, messageSvc, notifySvc)
	fileH := handlers.NewFileHandler(fileSvc)
	chatH := handlers.NewChatHandler(chatSvc, patents)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", userH.Signup)
			r.Post("/login", userH.Login)
			r.Post("/refresh", userH.Refresh)
		})

		// Previews are embedded in iframes, which cannot send a bearer token.
		r.Get("/files/{file_id}/preview", fileH.Preview)

		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userH.Me)
				r.Patch("/me", userH.UpdateMe)
				r.Get("/lawyers", userH.Lawyers)
			})

			r.Route("/disclosures", func(r chi.Router) {
				r.Get("/", disclosureH.List)
				r.Post("/", disclosureH.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", disclosureH.Get)
					r.Patch("/", disclosureH.Update)
					r.With(auth.RequireRoles(models.RoleAdmin)).Delete("/", disclosureH.Delete)
					r.With(auth.RequireRoles(models.RoleLawyer, models.RoleAdmin)).Patch("/status", disclosureH.UpdateStatus)
					r.With(auth.RequireRoles(models.RoleAdmin)).Post("/assign-lawyer", disclosureH.AssignLawyer)
					r.Get("/versions", disclosureH.Versions)
					r.Post("/set-patent-file", disclosureH.SetPatentFile)
					r.Post("/analyze-patent", disclosureH.AnalyzePatent)
					r.Get("/messages", collabH.ListMessages)
					r.Post("/messages", collabH.CreateMessage)
				})
			})

			r.Route("/drafts", func(r chi.Router) {
				r.Get("/{disclosure_id}", disclosureH.GetDraft)
				r.Patch("/{draft_id}/sections", disclosureH.UpdateSection)
				r.Patch("/{draft_id}/full-text", disclosureH.UpdateFullText)
				r.Post("/{disclosure_id}/approve", disclosureH.Approve)
				r.Post("/{disclosure_id}/request-revision", disclosureH.RequestRevision)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/disclosures/{disclosure_id}/comments", collabH.ListComments)
				r.Post("/disclosures/{disclosure_id}/comments", collabH.CreateComment)
				r.Patch("/{comment_id}", collabH.UpdateComment)
				r.Delete("/{comment_id}", collabH.DeleteComment)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Patch("/{message_id}", collabH.UpdateMessage)
				r.Delete("/{message_id}", collabH.DeleteMessage)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", collabH.ListNotifications)
				r.Patch("/{id}/read", collabH.MarkNotificationRead)
			})

			r.Route("/files", func(r chi.Router) {
				r.Post("/upload/{disclosure_id}", fileH.Upload)
				r.Get("/disclosure/{disclosure_id}/files", fileH.List)
				r.Get("/{file_id}/download", fileH.Download)
				r.Delete("/{file_id}", fileH.Delete)
			})

			if d.Models != nil {
				adminH := handlers.NewAdminHandler(d.Models)
				r.With(auth.RequireRoles(models.RoleAdmin)).Get("/admin/models", adminH.Models)
			}

			r.Post("/chat/assistant", chatH.Assistant)
			r.Route("/patent-analysis", func(r chi.Router) {
				r.Post("/analyze", chatH.AnalyzePatent)
				r.Post("/quick-summary", chatH.QuickSummary)
			})

			if d.Config.Video.Enabled {
				videoH := handlers.NewVideoHandler(videosession.NewService(d.Store, disclosureSvc, d.AI, d.Transcriber))
				r.Route("/video-sessions", func(r chi.Router) {
					r.Post("/create", videoH.Create)
					r.Get("/disclosure/{disclosure_id}", videoH.List)
					r.Get("/{session_id}", videoH.Get)
					r.Patch("/{session_id}", videoH.Update)
					r.Post("/{session_id}/end", videoH.End)
					r.Post("/{session_id}/transcribe", videoH.Transcribe)
					r.Delete("/{session_id}", videoH.Delete)
				})
			}
		})
	})

	return r
}
