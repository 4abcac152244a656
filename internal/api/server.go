package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/campus-pulse/pulse-api/docs"
	v1 "github.com/campus-pulse/pulse-api/internal/api/handler/v1"
	"github.com/campus-pulse/pulse-api/internal/api/middleware"
	"github.com/campus-pulse/pulse-api/internal/config"
	"github.com/campus-pulse/pulse-api/internal/domain"
	"github.com/campus-pulse/pulse-api/internal/pkg/mailer"
	"github.com/campus-pulse/pulse-api/internal/repository"
	"github.com/campus-pulse/pulse-api/internal/repository/dao"
	"github.com/campus-pulse/pulse-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	mail := mailer.New(conf.SMTP)
	slack := domain.WindowSlack{
		Before: time.Duration(conf.Attendance.SlackBeforeHours) * time.Hour,
		After:  time.Duration(conf.Attendance.SlackAfterHours) * time.Hour,
	}

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	excuseRepo := repository.NewExcuseRepository(dao.NewExcuseDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))

	pointsSvc := service.NewPointsService(userRepo)
	authSvc := service.NewAuthService(userRepo, attendanceRepo)
	userSvc := service.NewUserService(userRepo, attendanceRepo)
	eventSvc := service.NewEventService(eventRepo, orgRepo, userRepo)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, eventRepo, orgRepo, userRepo, pointsSvc, slack)
	excuseSvc := service.NewExcuseService(excuseRepo, attendanceRepo, eventRepo, orgRepo, userRepo, pointsSvc, mail)
	orgSvc := service.NewOrganizationService(orgRepo, userRepo, eventSvc, mail)

	s.MountHandlers(
		v1.NewAuthHandler(conf.API, authSvc),
		v1.NewUserHandler(userSvc),
		v1.NewEventHandler(eventSvc),
		v1.NewAttendanceHandler(attendanceSvc),
		v1.NewExcuseHandler(excuseSvc),
		v1.NewPointsHandler(pointsSvc),
		v1.NewOrganizationHandler(orgSvc, eventSvc),
	)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	attendanceHandler *v1.AttendanceHandler,
	excuseHandler *v1.ExcuseHandler,
	pointsHandler *v1.PointsHandler,
	orgHandler *v1.OrganizationHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.GET("/users/me/qrcode", userHandler.HandleGetMyQRCode)
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/events", eventHandler.HandleListEvents)
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.POST("/events/:eventID/register", eventHandler.HandleRegister)
		authed.DELETE("/events/:eventID/register", eventHandler.HandleCancelRegistration)
		authed.GET("/registrations", eventHandler.HandleListMyRegistrations)

		authed.POST("/events/:eventID/scan", attendanceHandler.HandleScan)
		authed.GET("/events/:eventID/attendance", attendanceHandler.HandleListEventAttendance)
		authed.GET("/events/:eventID/attendance/me", attendanceHandler.HandleGetMyStatus)

		authed.POST("/excuses", excuseHandler.HandleSubmitExcuse)
		authed.GET("/excuses/pending", excuseHandler.HandleListPendingExcuses)
		authed.POST("/excuses/:excuseID/review", excuseHandler.HandleReviewExcuse)
		authed.GET("/events/:eventID/excuses/me", excuseHandler.HandleListMyExcuses)

		authed.GET("/points/history", pointsHandler.HandleGetMyHistory)
		authed.GET("/points/leaderboard", pointsHandler.HandleGetLeaderboard)

		authed.POST("/organizations", orgHandler.HandleCreateOrganization)
		authed.GET("/organizations/:orgID", orgHandler.HandleGetOrganization)
		authed.POST("/organizations/:orgID/review", orgHandler.HandleReviewOrganization)
		authed.POST("/organizations/join", orgHandler.HandleJoinByCode)
		authed.POST("/organizations/invites/:token", orgHandler.HandleJoinByInvite)
		authed.POST("/organizations/:orgID/invites", orgHandler.HandleCreateInvite)
		authed.GET("/organizations/:orgID/members", orgHandler.HandleListMembers)
		authed.GET("/organizations/:orgID/events", orgHandler.HandleListOrganizationEvents)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Pulse API"
	docs.SwaggerInfo.Description = "Event attendance, points and excuse management for student organizations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
