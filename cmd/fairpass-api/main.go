package main

import (
	"fmt"

	"fairpass/docs"
	"fairpass/internal/admission"
	"fairpass/internal/artifacts"
	"fairpass/internal/audit"
	"fairpass/internal/database"
	"fairpass/internal/events"
	"fairpass/internal/middleware"
	"fairpass/internal/outbox"
	"fairpass/internal/ratelimit"
	appbuilder "fairpass/pkg/app_builder"
	"fairpass/pkg/logger"
	"fairpass/pkg/rabbitmq"
	"fairpass/pkg/rest"
	"fairpass/pkg/zkp"

	"github.com/gin-gonic/gin"
)

type builder = appbuilder.AppBuilder[ApiConfigJson, ApiConfig]

// @title           FairPass Admission API
// @version         1.0
// @description     Anonymous, one-time event admission backed by zero-knowledge membership proofs
// @host            localhost:9000
// @BasePath        /
// @securityDefinitions.apikey OrganizerToken
// @in header
// @name Authorization
func main() {
	var (
		eventsHandler    *events.Handler
		artifactsHandler *artifacts.Handler
		auditHandler     *audit.AuditHandler
		organizerAuth    gin.HandlerFunc
		checkInLimit     gin.HandlerFunc
	)

	app := appbuilder.New[ApiConfigJson, ApiConfig]().
		InitLogger(logger.GlobalLoggerConfig{Args: []logger.LoggerArg{{Key: "service", Value: "fairpass-api"}}}).
		ResolveEnvironment().
		LoadConfig("config.json").
		WithOption(func(a *builder) {
			// ----- DATABASE + MIGRATIONS -----
			database.ConnectToDatabase(a)
		}).
		WithOption(func(a *builder) {
			// ----- CIRCUIT KEYS -----
			zkpConf := a.Config.ZkpConf
			a.Logger.Infof("Loading membership circuit keys for depth %d from %s ...", zkpConf.Depth, zkpConf.KeysDir)
			keys, generated, err := zkp.LoadOrSetup(zkpConf.KeysDir, zkpConf.Depth)
			if err != nil {
				a.Logger.Fatal(err, "Failed to load circuit keys")
			}
			if generated {
				a.Logger.Warn("Generated new circuit keys; proofs made with earlier keys no longer verify")
			}

			// ----- ADMISSION -----
			eventsHandler, err = events.Build(
				database.GetDatabaseConnection(),
				zkp.NewVerifier(keys),
				a.Logger,
				admission.WithDepth(zkpConf.Depth),
				admission.WithRootHistory(zkpConf.RootHistory),
			)
			if err != nil {
				a.Logger.Fatal(err, "Failed to build admission controller")
			}

			artifactsHandler, err = artifacts.NewHandler(keys)
			if err != nil {
				a.Logger.Fatal(err, "Failed to serialize circuit keys")
			}

			// ----- AUDIT -----
			auditService := audit.NewAuditService(audit.NewAuditRepository(database.GetDatabaseConnection()))
			auditHandler = audit.NewAuditHandler(auditService)

			// ----- AUTH + RATE LIMIT -----
			organizerAuth = middleware.OrganizerAuth(a.Config.AuthConf, a.Logger)

			limiter, err := ratelimit.New(a.Config.RateLimitConf)
			if err != nil {
				a.Logger.Fatal(err, "Failed to create rate limiter")
			}
			checkInLimit = middleware.RateLimit(limiter, a.Config.RateLimitConf, "checkin", a.Logger)
		}).

		// ----- RABBITMQ -----
		InitRabbitmqConnection().
		InitRabbitmqRegistries().
		WithOption(func(a *builder) {
			if a.Conn == nil {
				return
			}

			// ----- WORKERS -----
			db := database.GetDatabaseConnection()
			a.AddWorkerServices(
				outbox.NewOutboxWorker(
					outbox.NewRepo(db),
					rabbitmq.GetPublisher(AdmissionEventsPublisher),
					a.Logger.WithField("worker", "outbox"),
					outbox.WithSchedule(a.Config.OutboxConf.Schedule),
					outbox.WithBatchSize(a.Config.OutboxConf.BatchSize),
				),
				audit.NewAuditWorker(
					audit.NewAuditService(audit.NewAuditRepository(db)),
					rabbitmq.GetConsumer(AdmissionAuditConsumer),
					a.Logger.WithField("worker", "audit"),
				),
			)
		})

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", app.Config.GetRestApiPort())

	app.
		AddGinMiddleware(
			rest.NewMiddleware(rest.GlobalGroup, middleware.RequestLogger(app.Logger)),
			rest.NewMiddleware(rest.GlobalGroup, middleware.CORSMiddleware(app.Config.CorsConf)),
		).
		AddGinRoutes(
			// ORGANIZERS:
			rest.NewRoute(rest.POST, "v1", "events/:eventId/approve", eventsHandler.Approve, organizerAuth),
			rest.NewRoute(rest.DELETE, "v1", "events/:eventId", eventsHandler.DeleteEvent, organizerAuth),
			rest.NewRoute(rest.GET, "v1", "events/:eventId/audit", auditHandler.GetEntries, organizerAuth),

			// ATTENDEES + DOOR:
			rest.NewRoute(rest.POST, "v1", "events/:eventId/checkin", eventsHandler.CheckIn, checkInLimit),
			rest.NewRoute(rest.GET, "v1", "events/:eventId/members", eventsHandler.Members),
			rest.NewRoute(rest.GET, "v1", "events/:eventId/snapshot", eventsHandler.Snapshot),
			rest.NewRoute(rest.GET, "v1", "events/:eventId/nullifiers/:nullifier", eventsHandler.NullifierStatus),

			// CIRCUIT ARTIFACTS:
			rest.NewRoute(rest.GET, "v1", "artifacts", artifactsHandler.GetArtifacts),
			rest.NewRoute(rest.GET, "v1", "artifacts/vk", artifactsHandler.GetVK),
			rest.NewRoute(rest.GET, "v1", "artifacts/pk", artifactsHandler.GetPK),
		).
		AddSwagger().
		InitGinRouter().
		Build().
		Start()
}
