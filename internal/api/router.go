package api

import (
	"aim-achiever/internal/auth"
	"aim-achiever/internal/config"
	"aim-achiever/internal/db"
	"aim-achiever/internal/gemini"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/mail"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/aim-achiever" or "", always starts with '/'

	oracle := gemini.NewClient(cfg.Gemini)
	engine := goal.NewEngine(db.DB, oracle, NewRewardSink())
	mailer := mail.NewMailer(cfg.SMTP)

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Auth
		group.POST("/auth/signup", SignupHandler())
		group.POST("/auth/login", LoginHandler(cfg, rdb))

		authed := group.Group("", auth.AuthMiddleware(cfg, rdb))
		{
			authed.POST("/auth/logout", LogoutHandler(rdb))
			authed.GET("/auth/me", MeHandler())
			authed.GET("/profile", ProfileHandler())

			// Goals
			authed.GET("/goals", ListGoalsHandler(engine))
			authed.POST("/goals", CreateGoalHandler(engine))
			authed.GET("/goals/:id", GetGoalHandler(engine))
			authed.PUT("/goals/:id/status", UpdateGoalStatusHandler(engine))
			authed.DELETE("/goals/:id", DeleteGoalHandler(engine))
			authed.GET("/goals/:id/next", NextMicrotaskHandler(engine))
			authed.POST("/goals/:id/microtasks/:mid/quiz", MicrotaskQuizHandler(engine))
			authed.POST("/goals/:id/microtasks/:mid/submit", SubmitQuizHandler(engine))

			// Oracle passthrough
			authed.POST("/ask", AskHandler(oracle))

			// Mood check-ins
			authed.GET("/moods", ListMoodsHandler())
			authed.POST("/moods", CreateMoodHandler(oracle))
			authed.PUT("/moods/:id", UpdateMoodHandler())
			authed.DELETE("/moods/:id", DeleteMoodHandler())

			// Peers
			authed.GET("/peers", ListPeersHandler())
			authed.GET("/peers/pending", PendingInvitationsHandler())
			authed.POST("/peers/invite", InvitePeerHandler(cfg, mailer))
			authed.POST("/peers/accept/:token", AcceptPeerHandler(cfg))
			authed.DELETE("/peers/:id", RemovePeerHandler())
			authed.GET("/peers/:id/goals", PeerGoalsHandler())
			authed.GET("/peers/:id/moods", PeerMoodsHandler())
			authed.POST("/peers/:id/comments", CreateCommentHandler())
			authed.GET("/peers/comments", ListCommentsHandler())
		}
	}

	return r
}
