package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/identity"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/restaurantrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/metrics"

	"gorm.io/gorm"
)

const defaultGeocodeCacheTTL = 10 * time.Minute

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	logger     *slog.Logger
	metrics    *metrics.Metrics
	identity   *identity.Registry
	geocoder   ports.Geocoder
	notifier   ports.Notifier
	publisher  *kafka.OrderEventPublisher
	queue      *services.DispatchQueue
	chain      *services.EscalationChain
	fanout     *commands.OrderChangeFanout
	jobManager *jobs.JobManager
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) *CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)

	// Repositories outside any transaction, for reads, the candidate source
	// and the repair job.
	baseUoW := uowFactory.Create()
	orders := baseUoW.OrderRepository()
	restaurants := baseUoW.RestaurantRepository()

	m := metrics.New()

	queue := services.NewDispatchQueue(
		repoCandidateSource{orders: orders, restaurants: restaurants},
		services.DispatchQueueMetrics{
			Claims:      m.QueueClaims,
			StaleDrops:  m.QueueStaleDrops,
			EmptyClaims: m.QueueEmptyClaims,
		},
	)

	var publisher *kafka.OrderEventPublisher
	if config.KafkaHost != "" && config.KafkaOrderChangedTopic != "" {
		publisher = kafka.NewOrderEventPublisher(
			strings.Split(config.KafkaHost, ","),
			config.KafkaOrderChangedTopic,
		)
	}

	var eventSink ports.OrderEventPublisher
	if publisher != nil {
		eventSink = publisher
	}

	notifier := notify.NewRetryingNotifier(
		notify.NewSlogNotifier(logger),
		2*time.Second,
		15*time.Second,
	)

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: uowFactory,
		logger:     logger,
		metrics:    m,
		identity:   identity.NewRegistry(),
		geocoder:   geo.NewCachingGeocoder(geo.NewCoordinateGeocoder(), geocodeCacheTTL(config)),
		notifier:   notifier,
		publisher:  publisher,
		queue:      queue,
		chain:      services.NewEscalationChain(notifier, logger, m.EscalationNotifications),
		fanout:     commands.NewOrderChangeFanout(queue, eventSink, logger),
		jobManager: jobs.NewJobManager(queue, orders, restaurants, logger),
	}
	return root
}

// RunMigrations creates or updates the storage schema.
func (c *CompositionRoot) RunMigrations() error {
	return c.gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &restaurantrepo.RestaurantDTO{})
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) IdentityRegistry() *identity.Registry {
	return c.identity
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// PrimeQueue runs one queue-repair pass so claims work before the first
// scheduled tick.
func (c *CompositionRoot) PrimeQueue(ctx context.Context) {
	c.jobManager.QueueRepairJob().Run(ctx)
}

// Close releases the long-lived outbound connections.
func (c *CompositionRoot) Close() error {
	if c.publisher != nil {
		return c.publisher.Close()
	}
	return nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.geocoder, c.fanout)
}

func (c *CompositionRoot) CreateCreateRestaurantCommandHandler() commands.CreateRestaurantCommandHandler {
	var f commands.RestaurantUoWFactory = FuncRestaurantUoWFactory(func() commands.RestaurantUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateRestaurantCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.identity, c.fanout)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignCourierCommandHandler(f, c.identity, c.fanout)
}

func (c *CompositionRoot) CreateClaimNextOrderCommandHandler() commands.ClaimNextOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimNextOrderCommandHandler(c.queue, f, c.identity, c.fanout)
}

func (c *CompositionRoot) CreateRecordIncidentCommandHandler() commands.RecordIncidentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordIncidentCommandHandler(f, c.identity, c.chain)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportLocationCommandHandler(f, c.identity)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRateOrderCommandHandler(f, c.identity)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.uowFactory.Create().OrderRepository(), c.identity)
}

func (c *CompositionRoot) CreateGetIncidentQueryHandler() queries.GetIncidentQueryHandler {
	return queries.NewGetIncidentQueryHandler(c.uowFactory.Create().OrderRepository(), c.identity)
}

func (c *CompositionRoot) CreateGetDeliveryETAQueryHandler() queries.GetDeliveryETAQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewGetDeliveryETAQueryHandler(
		uow.OrderRepository(),
		uow.RestaurantRepository(),
		c.identity,
		services.NewETACalculator(),
	)
}

// repoCandidateSource adapts the repositories to the narrow re-fetch surface
// the dispatch queue revalidates against.
type repoCandidateSource struct {
	orders      ports.OrderRepository
	restaurants ports.RestaurantRepository
}

func (s repoCandidateSource) Order(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s repoCandidateSource) Restaurant(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	return s.restaurants.Get(ctx, id)
}

func geocodeCacheTTL(config Config) time.Duration {
	if config.GeocodeCacheTTL == "" {
		return defaultGeocodeCacheTTL
	}
	ttl, err := time.ParseDuration(config.GeocodeCacheTTL)
	if err != nil {
		return defaultGeocodeCacheTTL
	}
	return ttl
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRestaurantUoWFactory func() commands.RestaurantUoW

func (f FuncRestaurantUoWFactory) Create() commands.RestaurantUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
