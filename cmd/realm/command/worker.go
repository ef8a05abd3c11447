package command

import (
	"fmt"

	"github.com/pixil98/go-realm/internal/door"
	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/listener"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/mob"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Load static assets
	playerStore, err := cfg.Storage.Players.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}
	mapStore, err := cfg.Storage.Maps.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating map store: %w", err)
	}
	doorStore, err := cfg.Storage.Doors.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating door store: %w", err)
	}
	mobStore, err := cfg.Storage.Mobs.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mob store: %w", err)
	}

	mapSpec := mapStore.Get(cfg.World.MapID)
	if mapSpec == nil {
		return nil, fmt.Errorf("map %q not found", cfg.World.MapID)
	}

	// Door tiles feed the grid so pathing treats them specially.
	var doorDefs []*door.Door
	var doorIndexes []int
	for _, d := range doorStore.GetAll() {
		doorDefs = append(doorDefs, d)
		doorIndexes = append(doorIndexes, d.TileIndexes()...)
	}

	grid := world.NewGridMap(mapSpec, doorIndexes)
	index := world.NewIndex()

	// Messaging backbone
	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	router := messaging.NewRouter(natsServer, grid)

	var hub player.Hub
	if cfg.World.Federated {
		hub = messaging.NewHub(natsServer)
	}

	pm := player.NewManager(&player.Deps{
		Router:          router,
		Grid:            grid,
		Index:           index,
		Store:           playerStore,
		Doors:           doorDefs,
		Policy:          player.NewRightsPolicy(cfg.World.Moderators, cfg.World.Administrators, cfg.World.Offline),
		Hub:             hub,
		Offline:         cfg.World.Offline,
		SpawnX:          cfg.World.SpawnX,
		SpawnY:          cfg.World.SpawnY,
		TimeoutDuration: cfg.World.timeout(),
		WelcomeTemplate: cfg.World.WelcomeTemplate,
	})

	mobManager := mob.NewManager(mobStore.GetAll(), grid, index, router)

	tick := cfg.tickInterval()
	teamWar := cfg.Minigame.BuildTeamWar(tick, router)

	cm := listener.NewConnectionManager(pm, natsServer, teamWar)

	realmDriver := driver.NewRealmDriver([]driver.Manager{
		mobManager,
		teamWar,
		pm,
	}, driver.WithTickLength(tick))

	return service.WorkerList{
		"nats":     natsServer,
		"driver":   realmDriver,
		"listener": cfg.Listener.BuildListener(cm),
	}, nil
}
