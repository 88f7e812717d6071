package main

import (
	"net/http"

	"github.com/chance-app/backend/internal/middleware"
	"github.com/chance-app/backend/migration"
	"github.com/chance-app/backend/pkg/router"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/rs/cors"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := migration.AutoMigrate(s.ctx); err != nil {
		return err
	}

	s.loadStorage()
	s.loadRedis()
	if err := s.loadAuthenticator(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	var handler http.Handler = s.router.Handler()
	if len(s.configs.ApiServer.AllowCORS) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   s.configs.ApiServer.AllowCORS,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	httpServer := &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: handler,
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.configs.ApiServer.Address())
	if err := httpServer.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSetAccessToken())
	authRouter.After(middleware.HandleSaveSession())
	{
		router.POST(authRouter, "/signup", s.authDomain.Signup)
		router.POST(authRouter, "/signin", s.authDomain.Signin)
		router.GET(authRouter, "/oauth2/verify", s.authDomain.OAuth2Verify)
		router.POST(authRouter, "/refresh", s.authDomain.Refresh)
	}

	// These following APIs are public, but give personalized results when the
	// request carries a valid access token.
	optionalAuthRouter := s.router.Branch()
	optionalAuthRouter.Before(middleware.NewAuthVerifier().WithOptional().Middleware())
	{
		router.GET(optionalAuthRouter, "/getProjects", s.projectDomain.GetList)
		router.GET(optionalAuthRouter, "/getProject", s.projectDomain.Get)
		router.GET(optionalAuthRouter, "/getProjectMembers", s.projectDomain.GetMembers)
		router.GET(optionalAuthRouter, "/getHeartbeats", s.heartbeatDomain.GetList)
		router.GET(optionalAuthRouter, "/getHeartbeatComments", s.heartbeatDomain.GetComments)
		router.GET(optionalAuthRouter, "/getSpotlight", s.spotlightDomain.GetRankings)
		router.GET(optionalAuthRouter, "/getSpotlightProfile", s.spotlightDomain.GetUserProfile)
	}

	// These following APIs need authentication.
	authRequiredRouter := s.router.Branch()
	authRequiredRouter.Before(middleware.NewAuthVerifier().Middleware())
	{
		// User API
		router.GET(authRequiredRouter, "/getMe", s.userDomain.GetMe)
		router.POST(authRequiredRouter, "/updateMe", s.userDomain.UpdateMe)
		router.GET(authRequiredRouter, "/getMyProjects", s.userDomain.GetMyProjects)
		router.GET(authRequiredRouter, "/getMyHeartbeats", s.userDomain.GetMyHeartbeats)
		router.POST(authRequiredRouter, "/uploadAvatar", s.userDomain.UploadAvatar)

		// Project API
		router.POST(authRequiredRouter, "/createProject", s.projectDomain.Create)
		router.POST(authRequiredRouter, "/updateProject", s.projectDomain.Update)
		router.POST(authRequiredRouter, "/deleteProject", s.projectDomain.Delete)
		router.POST(authRequiredRouter, "/joinProject", s.projectDomain.Join)
		router.POST(authRequiredRouter, "/leaveProject", s.projectDomain.Leave)
		router.POST(authRequiredRouter, "/upvoteProject", s.projectDomain.Upvote)

		// Heartbeat API
		router.POST(authRequiredRouter, "/createHeartbeat", s.heartbeatDomain.Create)
		router.POST(authRequiredRouter, "/deleteHeartbeat", s.heartbeatDomain.Delete)
		router.POST(authRequiredRouter, "/likeHeartbeat", s.heartbeatDomain.Like)
		router.POST(authRequiredRouter, "/commentHeartbeat", s.heartbeatDomain.Comment)
		router.POST(authRequiredRouter, "/deleteComment", s.heartbeatDomain.DeleteComment)
		router.POST(authRequiredRouter, "/likeComment", s.heartbeatDomain.LikeComment)
		router.POST(authRequiredRouter, "/shareHeartbeat", s.heartbeatDomain.Share)
	}

	// These following APIs need the global admin role.
	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.NewAuthVerifier().Middleware())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.POST(adminRouter, "/completeProject", s.projectDomain.CompleteAndAward)
	}
}
