package cmd

import (
	"fmt"
	"log/slog"

	httpapi "mercuri/internal/adapters/in/http"
	"mercuri/internal/adapters/out/fanout"
	"mercuri/internal/adapters/out/inmemory"
	"mercuri/internal/adapters/out/postgres"
	"mercuri/internal/adapters/out/postgres/contactrepo"
	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/services"
	"mercuri/internal/core/ports"
	"mercuri/internal/jobs"
	"mercuri/internal/pkg/clock"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	clock      ports.Clock
	notifier   ports.Notifier
	contacts   ports.ContactBook
	logger     *slog.Logger

	dispatch *jobs.DispatchWorker
	closers  []func() error
}

// NewCompositionRoot wires the application. gormDB may be nil only for the memory store.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		gormDB: gormDB,
		clock:  clock.System{},
		logger: logger,
	}

	switch cfg.StoreDriver {
	case StoreMemory:
		c.uowFactory = inmemory.NewStore()
	default:
		if gormDB == nil {
			return nil, fmt.Errorf("store driver %q needs a database connection", cfg.StoreDriver)
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		c.contacts = contactrepo.NewGormContactBook(gormDB)
	}

	notifier, err := c.createNotifier()
	if err != nil {
		return nil, err
	}
	c.notifier = fanout.NewInstrumented(notifier)

	c.dispatch = jobs.NewDispatchWorker(c.CreateDispatchOrderCommandHandler(), jobs.DispatchConfig{
		Workers:       cfg.DispatchWorkers,
		QueueSize:     cfg.DispatchQueueSize,
		MaxRetries:    cfg.DispatchMaxRetries,
		RetryInterval: cfg.DispatchRetryInterval,
	}, logger)

	return c, nil
}

func (c *CompositionRoot) createNotifier() (ports.Notifier, error) {
	switch c.cfg.NotifierDriver {
	case NotifierKafka:
		n := fanout.NewKafkaNotifier(c.cfg.KafkaBrokers(), c.cfg.KafkaNotificationsTopic, c.clock)
		c.closers = append(c.closers, n.Close)
		return n, nil
	case NotifierRabbitMQ:
		n, err := fanout.NewRabbitMQNotifier(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange, c.clock)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq notifier: %w", err)
		}
		c.closers = append(c.closers, n.Close)
		return n, nil
	default:
		return fanout.NewLogNotifier(c.logger), nil
	}
}

// Close releases broker connections.
func (c *CompositionRoot) Close() error {
	var err error
	for _, closeFn := range c.closers {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) riderUoW() commands.RiderUoWFactory {
	return FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoW(), c.dispatch, c.clock, c.cfg.OrderTTL, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateRedispatchOrderCommandHandler() commands.RedispatchOrderCommandHandler {
	return commands.NewRedispatchOrderCommandHandler(c.orderUoW(), c.dispatch, c.clock)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(
		c.uow(),
		services.NewOrderDispatcher(services.FlatFarePolicy{}),
		c.clock,
		c.notifier,
		c.contacts,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	return commands.NewAcceptOfferCommandHandler(c.uow(), c.clock, c.notifier, c.contacts, c.logger)
}

func (c *CompositionRoot) CreateCounterOfferCommandHandler() commands.CounterOfferCommandHandler {
	return commands.NewCounterOfferCommandHandler(c.uow(), c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateDeclineOfferCommandHandler() commands.DeclineOfferCommandHandler {
	return commands.NewDeclineOfferCommandHandler(c.uow(), c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateReapExpiredCommandHandler() commands.ReapExpiredCommandHandler {
	return commands.NewReapExpiredCommandHandler(c.uow(), c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateRegisterRiderCommandHandler() commands.RegisterRiderCommandHandler {
	return commands.NewRegisterRiderCommandHandler(c.riderUoW(), c.clock)
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	return commands.NewUpdateRiderLocationCommandHandler(c.riderUoW(), c.clock)
}

func (c *CompositionRoot) CreateSetRiderAvailabilityCommandHandler() commands.SetRiderAvailabilityCommandHandler {
	return commands.NewSetRiderAvailabilityCommandHandler(c.riderUoW(), c.clock)
}

// Read models need Postgres; with the memory store their routes answer 501.
func (c *CompositionRoot) hasReadModel() bool {
	return c.gormDB != nil && c.cfg.StoreDriver != StoreMemory
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableRidersQueryHandler() queries.GetAvailableRidersQueryHandler {
	return queries.NewGetAvailableRidersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOfferHistoryQueryHandler() queries.GetOfferHistoryQueryHandler {
	return queries.NewGetOfferHistoryQueryHandler(c.gormDB)
}

// CreateHTTPHandlers collects everything the HTTP server routes to.
func (c *CompositionRoot) CreateHTTPHandlers() httpapi.Handlers {
	h := httpapi.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		RedispatchOrder:      c.CreateRedispatchOrderCommandHandler(),
		AcceptOffer:          c.CreateAcceptOfferCommandHandler(),
		CounterOffer:         c.CreateCounterOfferCommandHandler(),
		DeclineOffer:         c.CreateDeclineOfferCommandHandler(),
		RegisterRider:        c.CreateRegisterRiderCommandHandler(),
		UpdateRiderLocation:  c.CreateUpdateRiderLocationCommandHandler(),
		SetRiderAvailability: c.CreateSetRiderAvailabilityCommandHandler(),
	}

	if c.hasReadModel() {
		h.GetOrder = c.CreateGetOrderQueryHandler()
		h.GetPendingOrders = c.CreateGetPendingOrdersQueryHandler()
		h.GetAvailableRiders = c.CreateGetAvailableRidersQueryHandler()
		h.GetOfferHistory = c.CreateGetOfferHistoryQueryHandler()
	}

	return h
}

func (c *CompositionRoot) CreateHTTPServer() *httpapi.Server {
	return httpapi.NewServer(c.CreateHTTPHandlers(), c.logger)
}

// CreateJobManager returns the manager for the reaper and the dispatch worker that
// CreateOrder and Redispatch enqueue to.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reaper := jobs.NewExpirationReaperJob(c.CreateReapExpiredCommandHandler(), c.cfg.ReaperInterval, c.logger)
	return jobs.NewJobManager(reaper, c.dispatch)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
