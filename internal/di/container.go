package di

import (
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/handler"
	"github.com/re5pectR10/eventhub/internal/repository"
	"github.com/re5pectR10/eventhub/internal/service"
	"github.com/re5pectR10/eventhub/pkg/database"
	"github.com/re5pectR10/eventhub/pkg/redis"
)

// Container holds all dependencies for the booking service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Gateways
	PaymentGateway gateway.PaymentGateway

	// Repositories
	OrganizerRepo  repository.OrganizerRepository
	EventRepo      repository.EventRepository
	TicketTypeRepo repository.TicketTypeRepository
	BookingRepo    repository.BookingRepository
	TicketRepo     repository.TicketRepository

	// Services
	EventPublisher     service.EventPublisher
	OrganizerService   service.OrganizerService
	EventService       service.EventService
	TicketTypeService  service.TicketTypeService
	BookingService     service.BookingService
	CheckoutService    service.CheckoutService
	TicketService      service.TicketService
	FulfillmentService service.FulfillmentService

	// Handlers
	HealthHandler     *handler.HealthHandler
	OrganizerHandler  *handler.OrganizerHandler
	EventHandler      *handler.EventHandler
	TicketTypeHandler *handler.TicketTypeHandler
	BookingHandler    *handler.BookingHandler
	TicketHandler     *handler.TicketHandler
	WebhookHandler    *handler.WebhookHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	PaymentGateway gateway.PaymentGateway
	EventPublisher service.EventPublisher
	BookingConfig  *service.BookingServiceConfig
	CheckoutConfig *service.CheckoutServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		PaymentGateway: cfg.PaymentGateway,
		EventPublisher: cfg.EventPublisher,
	}
	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}

	// Initialize repositories
	pool := c.DB.Pool()
	c.OrganizerRepo = repository.NewPostgresOrganizerRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.TicketTypeRepo = repository.NewPostgresTicketTypeRepository(pool)
	c.BookingRepo = repository.NewPostgresBookingRepository(pool)
	c.TicketRepo = repository.NewPostgresTicketRepository(pool)

	// Initialize services
	c.OrganizerService = service.NewOrganizerService(c.OrganizerRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.TicketTypeRepo, c.OrganizerRepo)
	c.TicketTypeService = service.NewTicketTypeService(c.TicketTypeRepo, c.EventRepo, c.OrganizerRepo)
	c.BookingService = service.NewBookingService(c.BookingRepo, c.EventRepo, c.TicketTypeRepo, c.EventPublisher, cfg.BookingConfig)
	c.CheckoutService = service.NewCheckoutService(c.BookingRepo, c.EventRepo, c.TicketTypeRepo, c.OrganizerRepo, c.PaymentGateway, cfg.CheckoutConfig)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.BookingRepo, c.EventRepo, c.OrganizerRepo)
	c.FulfillmentService = service.NewFulfillmentService(c.BookingRepo, c.TicketTypeRepo, c.TicketService, c.EventPublisher)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.OrganizerHandler = handler.NewOrganizerHandler(c.OrganizerService, c.EventService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.TicketTypeHandler = handler.NewTicketTypeHandler(c.TicketTypeService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService, c.CheckoutService, c.TicketService)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService)
	c.WebhookHandler = handler.NewWebhookHandler(c.FulfillmentService, c.OrganizerService, c.PaymentGateway)

	return c
}
