package appbuilder

import (
	"fmt"

	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"
	"fairpass/pkg/rest"
	"fairpass/pkg/utilities"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type AppConfig interface {
	GetLoggerConfig() logger.LoggerConfig
	GetRabbitmqConfig() rabbitmq.RabbitmqConfig
	GetRestApiPort() uint16
}

// AppBuilder assembles an Application step by step. Any step that cannot
// complete panics, since a half-configured service must not start.
type AppBuilder[T utilities.JsonConfigObj[U], U AppConfig] struct {
	Logger *logger.Logger
	Config U
	Conn   *amqp.Connection

	workerServices []rabbitmq.WorkerService
	middlewares    []rest.Middleware
	routes         []rest.Route
	engine         *gin.Engine
	closers        []func() error
}

func New[T utilities.JsonConfigObj[U], U AppConfig]() *AppBuilder[T, U] {
	return &AppBuilder[T, U]{}
}

func (a *AppBuilder[T, U]) InitLogger(loggerArgs logger.GlobalLoggerConfig) *AppBuilder[T, U] {
	logger.InitDefaultLogger(loggerArgs)
	a.Logger = logger.Default()
	a.Logger.Info("Logger initialized")

	return a
}

// ResolveEnvironment loads .env files so FAIRPASS_* variables can override the config file.
func (a *AppBuilder[T, U]) ResolveEnvironment(files ...string) *AppBuilder[T, U] {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := utilities.LoadEnvironment(files...); err != nil {
		a.Logger.Error(err, "Failed to load environment files")
		panic(err)
	}
	return a
}

func (a *AppBuilder[T, U]) LoadConfig(filePath string) *AppBuilder[T, U] {
	a.Logger.Infof("Preparing to load config from %s ...", filePath)
	config, err := utilities.ReadConfig[T, U](filePath)
	if err != nil {
		a.Logger.Error(err, "Failed to load config")
		panic(err)
	}

	a.Config = config
	// the default logger was built before the configured level was known
	a.Logger.WithLevel(config.GetLoggerConfig().LogLevel)
	a.Logger.Info("Config successfully loaded.")
	return a
}

// WithOption runs an arbitrary setup step against the builder.
func (a *AppBuilder[T, U]) WithOption(option func(a *AppBuilder[T, U])) *AppBuilder[T, U] {
	option(a)
	return a
}

// OnShutdown registers a function run after the HTTP server and workers stop.
func (a *AppBuilder[T, U]) OnShutdown(closer func() error) *AppBuilder[T, U] {
	a.closers = append(a.closers, closer)
	return a
}

func (a *AppBuilder[T, U]) RabbitmqEnabled() bool {
	return a.Config.GetRabbitmqConfig().Enabled
}

func (a *AppBuilder[T, U]) InitRabbitmqConnection() *AppBuilder[T, U] {
	rabbitmqConfig := a.Config.GetRabbitmqConfig()
	if !rabbitmqConfig.Enabled {
		a.Logger.Warn("Rabbitmq disabled, admission events stay in the outbox")
		return a
	}

	a.Logger.Info("Preparing to connect to Rabbitmq server...")
	conn, err := rabbitmq.ConnectToRabbitmq(rabbitmqConfig, a.Logger)
	if err != nil {
		a.Logger.Error(err, "Failed to connect to Rabbitmq")
		panic(err)
	}

	a.Conn = conn
	a.OnShutdown(conn.Close)
	a.Logger.Info("Connection with Rabbitmq server established")
	return a
}

func (a *AppBuilder[T, U]) InitRabbitmqRegistries() *AppBuilder[T, U] {
	if a.Conn == nil {
		return a
	}

	a.Logger.Info("Initializing Rabbitmq registries from config")
	rabbitmqConf := a.Config.GetRabbitmqConfig()

	if err := rabbitmq.InitializePublisherRegistry(a.Conn, rabbitmqConf.PublishersConfig); err != nil {
		a.Logger.Error(err, "Failed to initialize publishers")
		panic(err)
	}
	if err := rabbitmq.InitializeConsumerRegistry(a.Conn, rabbitmqConf.ConsumersConfig, a.Logger); err != nil {
		a.Logger.Error(err, "Failed to initialize consumers")
		panic(err)
	}
	a.Logger.Info("Successfully initialized Rabbitmq registries from config")
	return a
}

func (a *AppBuilder[T, U]) AddWorkerServices(workerServices ...rabbitmq.WorkerService) *AppBuilder[T, U] {
	a.Logger.Info("Adding Worker Services to Application...")
	a.workerServices = append(a.workerServices, workerServices...)
	return a
}

func (a *AppBuilder[T, U]) AddGinMiddleware(middlewares ...rest.Middleware) *AppBuilder[T, U] {
	a.middlewares = append(a.middlewares, middlewares...)
	return a
}

func (a *AppBuilder[T, U]) AddGinRoutes(routes ...rest.Route) *AppBuilder[T, U] {
	a.Logger.Info("Adding Gin REST API routes to Application...")
	a.routes = append(a.routes, routes...)
	return a
}

func (a *AppBuilder[T, U]) AddSwagger() *AppBuilder[T, U] {
	a.Logger.Info("Adding SwaggerUI...")
	a.routes = append(a.routes, rest.NewRoute(
		rest.GET,
		"swagger",
		"*any",
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	))

	return a
}

func (a *AppBuilder[T, U]) InitGinRouter() *AppBuilder[T, U] {
	a.Logger.Info("Initializing Gin Router...")
	router := gin.New()
	router.Use(gin.Recovery())

	a.Logger.Info("Registering REST API routes...")
	if err := rest.Register(router, a.middlewares, a.routes); err != nil {
		a.Logger.Error(err, "Failed to register routes")
		panic(err)
	}

	a.engine = router
	a.Logger.Infof("Successfully registered %d REST API routes.", len(a.routes))
	return a
}

func (a *AppBuilder[T, U]) Build() *Application {
	return &Application{
		Logger:         a.Logger,
		Addr:           fmt.Sprintf("0.0.0.0:%d", a.Config.GetRestApiPort()),
		WorkerServices: a.workerServices,
		Engine:         a.engine,
		Closers:        a.closers,
	}
}
