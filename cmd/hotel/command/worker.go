package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-hotel/internal/catalogue"
	"github.com/pixil98/go-hotel/internal/driver"
	"github.com/pixil98/go-hotel/internal/game"
	"github.com/pixil98/go-hotel/internal/intents"
	"github.com/pixil98/go-hotel/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Create the messaging backbone
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	// Load the backing stores
	stores, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, fmt.Errorf("building stores: %w", err)
	}

	// Load the world. Serving with a partially loaded world is worse than
	// not starting, so any load error aborts startup.
	roomManager := game.NewRoomManager(stores.Models, stores.BaseItems, stores.Rooms, stores.Items, publisher)
	if err := roomManager.LoadAll(context.Background()); err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	userManager := game.NewUserManager(roomManager, stores.Items, stores.BaseItems)
	cat := catalogue.NewCatalogue(stores.CataloguePages, stores.BaseItems, stores.Items)

	// Setup the world tick driver
	tickInterval, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	hotelDriver := driver.NewHotelDriver(
		[]driver.Manager{roomManager},
		driver.WithTickLength(tickInterval),
	)

	// Create a worker list
	return service.WorkerList{
		"nats":    natsServer,
		"driver":  hotelDriver,
		"intents": intents.NewDispatcher(natsServer, userManager, roomManager, cat),
		"users":   userManager,
	}, nil
}
