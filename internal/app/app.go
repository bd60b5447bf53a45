package app

import (
	"context"
	"log"
	"mapmyroute_backend/internal/cache"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/controller"
	"mapmyroute_backend/internal/identity"
	"mapmyroute_backend/internal/jobboard"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/pkg/configwatcher"
	"mapmyroute_backend/pkg/database"
	"mapmyroute_backend/pkg/logger"
	"mapmyroute_backend/pkg/monitoring"
	"mapmyroute_backend/pkg/security"
	"mapmyroute_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	cancel          context.CancelFunc
}

type repositories struct {
	user      *repository.UserRepository
	skillPath *repository.SkillPathRepository
	planner   *repository.PlannerRepository
	quiz      *repository.QuizRepository
	history   *repository.HistoryRepository
	tracking  *repository.TimeTrackingRepository
	progress  *repository.ProgressRepository
}

type services struct {
	ai        *service.AIService
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	history   *service.HistoryService
	roadmap   *service.RoadmapService
	skillPath *service.SkillPathService
	planner   *service.PlannerService
	analytics *service.AnalyticsService
	resource  *service.ResourceService
	export    *service.ExportService
	quiz      *service.QuizService
	career    *service.CareerService
	tracking  *service.TimeTrackingService
	progress  *service.ProgressService
}

type controllers struct {
	auth      *controller.AuthController
	roadmap   *controller.RoadmapController
	skillPath *controller.SkillPathController
	planner   *controller.PlannerController
	analytics *controller.AnalyticsController
	resource  *controller.ResourceController
	export    *controller.ExportController
	history   *controller.HistoryController
	quiz      *controller.QuizController
	career    *controller.CareerController
	health    *controller.HealthController
	tracking  *controller.TimeTrackingController
	progress  *controller.ProgressController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		skillPath: repository.NewSkillPathRepository(db),
		planner:   repository.NewPlannerRepository(db),
		quiz:      repository.NewQuizRepository(db),
		history:   repository.NewHistoryRepository(db),
		tracking:  repository.NewTimeTrackingRepository(db),
		progress:  repository.NewProgressRepository(db),
	}
}

func newVerifier(cfg *config.Config) identity.TokenVerifier {
	if !cfg.Firebase.Enabled {
		return identity.Disabled{}
	}
	v, err := identity.NewFirebaseVerifier(context.Background(), cfg.Firebase)
	if err != nil {
		logger.Log.Error("Failed to initialize firebase, falling back to JWT only", zap.Error(err))
		return identity.Disabled{}
	}
	return v
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg, newVerifier(cfg))
	s.user = service.NewUserService(repos.user)
	s.history = service.NewHistoryService(repos.history)
	s.roadmap = service.NewRoadmapService(s.ai, s.history)
	s.skillPath = service.NewSkillPathService(repos.skillPath, repos.planner, s.ai)
	s.planner = service.NewPlannerService(repos.planner, repos.skillPath, s.skillPath, s.ai)
	s.analytics = service.NewAnalyticsService(repos.planner, repos.skillPath, repos.tracking, repos.progress, s.skillPath, s.ai)
	s.tracking = service.NewTimeTrackingService(repos.tracking, s.skillPath)
	s.progress = service.NewProgressService(repos.progress, s.skillPath)
	s.resource = service.NewResourceService(s.ai, cache.New(rdb, "resources", cfg.Redis.TTL()))
	s.export = service.NewExportService(s.skillPath, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, repos.skillPath, s.ai)
	s.career = service.NewCareerService(
		jobboard.NewAdzuna(cfg.Jobs),
		cache.New(rdb, "jobs", cfg.Redis.TTL()),
		s.skillPath,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		roadmap:   controller.NewRoadmapController(s.roadmap),
		skillPath: controller.NewSkillPathController(s.skillPath),
		planner:   controller.NewPlannerController(s.planner),
		analytics: controller.NewAnalyticsController(s.analytics),
		resource:  controller.NewResourceController(s.resource, s.history),
		export:    controller.NewExportController(s.export),
		history:   controller.NewHistoryController(s.history),
		quiz:      controller.NewQuizController(s.quiz),
		career:    controller.NewCareerController(s.career),
		health:    controller.NewHealthController(db),
		tracking:  controller.NewTimeTrackingController(s.tracking),
		progress:  controller.NewProgressController(s.progress),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 监听配置文件，变更后通知已注册的回调
func (a *App) startBackgroundTasks(ctx context.Context) {
	go func() {
		err := configwatcher.WatchConfig(ctx, filepath.Clean(configFile), func(cfg *config.Config) {
			a.applyConfig(cfg)
		})
		if err != nil {
			logger.Log.Warn("config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时仍可提供服务
		logger.Log.Warn("Failed to initialize redis, caching disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(c *config.Config) {
		services.ai.Reload(c.AI)
		logger.Log.Info("AI settings reloaded",
			zap.String("provider", c.AI.Provider),
			zap.String("model", c.AI.Model))
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mapmyroute-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.cancel != nil {
		a.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
