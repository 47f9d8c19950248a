package bagservice

import (
	"log/slog"
	"time"

	httpadapter "dewey/contexts/player-experience/bag-service/adapters/http"
	"dewey/contexts/player-experience/bag-service/adapters/memory"
	"dewey/contexts/player-experience/bag-service/application/commands"
	"dewey/contexts/player-experience/bag-service/application/queries"
	"dewey/contexts/player-experience/bag-service/application/workers"
	"dewey/contexts/player-experience/bag-service/ports"
)

// Module is the bag-service composition root exposed to runtime wiring.
// The API process uses Handler; the worker process uses Projector.
type Module struct {
	Handler   httpadapter.Handler
	Projector workers.BagProjector
	Store     *memory.Store
	Bus       *memory.Bus
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Publisher      ports.EventPublisher
	Subscriber     ports.EventSubscriber
	Reads          ports.BagReadModel
	Writes         ports.BagWriteModel
	Dedup          ports.EventDedupStore
	Catalog        ports.DiscCatalog
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Source         string
	Topic          string
	ConsumerGroup  string
	PublishTimeout time.Duration
	DedupTTL       time.Duration
	Logger         *slog.Logger
}

// NewModule wires commands, queries, and the projector using explicit ports.
func NewModule(deps Dependencies) Module {
	registerPlayer := commands.RegisterPlayerUseCase{
		Publisher:      deps.Publisher,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		Source:         deps.Source,
		Topic:          deps.Topic,
		PublishTimeout: deps.PublishTimeout,
		Logger:         deps.Logger,
	}
	addDisc := commands.AddDiscUseCase{
		Catalog:        deps.Catalog,
		Publisher:      deps.Publisher,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		Source:         deps.Source,
		Topic:          deps.Topic,
		PublishTimeout: deps.PublishTimeout,
		Logger:         deps.Logger,
	}
	removeDisc := commands.RemoveDiscUseCase{
		Publisher:      deps.Publisher,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		Source:         deps.Source,
		Topic:          deps.Topic,
		PublishTimeout: deps.PublishTimeout,
		Logger:         deps.Logger,
	}
	getBag := queries.GetBagUseCase{
		Bags:   deps.Reads,
		Logger: deps.Logger,
	}
	projector := workers.BagProjector{
		Subscriber:    deps.Subscriber,
		Bags:          deps.Writes,
		Dedup:         deps.Dedup,
		Clock:         deps.Clock,
		Topic:         deps.Topic,
		ConsumerGroup: deps.ConsumerGroup,
		DedupTTL:      deps.DedupTTL,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterPlayer: registerPlayer,
			AddDisc:        addDisc,
			RemoveDisc:     removeDisc,
			GetBag:         getBag,
			Logger:         deps.Logger,
		},
		Projector: projector,
	}
}

// NewInMemoryModule builds a development/testing module where the store,
// dedup ledger, clock, id generator, and event log are all in-process.
func NewInMemoryModule(catalog ports.DiscCatalog, logger *slog.Logger) Module {
	store := memory.NewStore()
	bus := memory.NewBus(logger)
	module := NewModule(Dependencies{
		Publisher:      bus,
		Subscriber:     bus,
		Reads:          store,
		Writes:         store,
		Dedup:          store,
		Catalog:        catalog,
		Clock:          store,
		IDGenerator:    store,
		PublishTimeout: time.Second,
		DedupTTL:       time.Hour,
		Logger:         logger,
	})
	module.Store = store
	module.Bus = bus
	return module
}
