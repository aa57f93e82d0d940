package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB, err := gorm.Open(gormpostgres.Open(dsn(configs)), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer app.Close()

	if err := app.RunMigrations(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	seedAdminAccount(app, configs)
	app.PrimeQueue(context.Background())

	if err := app.JobManager().StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer app.JobManager().StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		AdminAccountID:         goDotEnvVariable("ADMIN_ACCOUNT_ID"),
		GeocodeCacheTTL:        goDotEnvVariable("GEOCODE_CACHE_TTL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func dsn(config cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword,
		config.DBName, config.DBSslMode)
}

// seedAdminAccount registers the bootstrap admin so role-gated operations are
// reachable before any other account exists.
func seedAdminAccount(app *cmd.CompositionRoot, config cmd.Config) {
	if config.AdminAccountID == "" {
		return
	}
	id, err := kernel.UUIDFromString(config.AdminAccountID)
	if err != nil {
		log.Fatalf("invalid ADMIN_ACCOUNT_ID: %v", err)
	}
	app.IdentityRegistry().Register(id, account.Admin)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/v1/accounts", registerAccountHandler(app))

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCreateRestaurantCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateAssignCourierCommandHandler(),
		app.CreateClaimNextOrderCommandHandler(),
		app.CreateRecordIncidentCommandHandler(),
		app.CreateReportLocationCommandHandler(),
		app.CreateRateOrderCommandHandler(),
		app.CreateGetOrderStatusQueryHandler(),
		app.CreateGetIncidentQueryHandler(),
		app.CreateGetDeliveryETAQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

// registerAccountHandler binds an account id to a role in the in-process
// identity registry. Identity is a stand-in collaborator; this is its
// management surface.
func registerAccountHandler(app *cmd.CompositionRoot) echo.HandlerFunc {
	type request struct {
		AccountID string `json:"account_id"`
		Role      string `json:"role"`
	}

	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(nethttp.StatusBadRequest, map[string]string{"message": "malformed body"})
		}

		id, err := kernel.UUIDFromString(req.AccountID)
		if err != nil {
			return c.JSON(nethttp.StatusBadRequest, map[string]string{"message": "invalid account_id"})
		}

		role := account.RoleFromString(req.Role)
		if !role.IsValid() {
			return c.JSON(nethttp.StatusBadRequest, map[string]string{"message": "unknown role"})
		}

		app.IdentityRegistry().Register(id, role)
		return c.NoContent(nethttp.StatusNoContent)
	}
}
