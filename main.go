package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	caches "github.com/MarshHawk/unlimited-poker/caching"
	"github.com/MarshHawk/unlimited-poker/dealer"
	"github.com/MarshHawk/unlimited-poker/game"
	"github.com/MarshHawk/unlimited-poker/logging"
	"github.com/MarshHawk/unlimited-poker/nats"
	"github.com/MarshHawk/unlimited-poker/pubsub"
	"github.com/MarshHawk/unlimited-poker/rest"
	"github.com/MarshHawk/unlimited-poker/test"
	"github.com/MarshHawk/unlimited-poker/util"
)

var runGameScriptTests *bool
var gameScriptsFileOrDir *string
var engineConfigFile *string
var testName *string
var dealerListenAddr *string
var dealerSeed *int64
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	runGameScriptTests = flag.Bool("script-tests", false, "runs script tests")
	gameScriptsFileOrDir = flag.String("game-script", "test/game-scripts", "runs tests with game script files")
	engineConfigFile = flag.String("engine-config", "", "YAML file with blinds, timeouts and buffer sizes")
	testName = flag.String("testname", "", "runs a specific test")
	dealerListenAddr = flag.String("serve-dealer", "", "serves the static dealer over grpc on this address")
	dealerSeed = flag.Int64("dealer-seed", 0, "seed for the static dealer, 0 uses the clock")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	if *runGameScriptTests {
		return test.RunGameScriptTests(*gameScriptsFileOrDir, *testName)
	}

	config, err := loadEngineConfig()
	if err != nil {
		return errors.Wrap(err, "Error while parsing engine config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := *dealerSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if *dealerListenAddr != "" {
		return serveDealer(ctx, *dealerListenAddr, dealer.NewStaticDealer(seed))
	}

	store, err := newHandStore(ctx)
	if err != nil {
		return errors.Wrap(err, "Error while creating hand store")
	}

	dealClient, err := newDealClient(seed)
	if err != nil {
		return errors.Wrap(err, "Error while creating dealer client")
	}

	tables, err := caches.NewTableHandCache(config.TableCacheSize)
	if err != nil {
		return err
	}
	broadcaster := game.NewBroadcaster(config.SubscriberBuffer)
	manager := game.NewManager(store, dealClient, broadcaster, tables, config)

	var telemetry *pubsub.Broker[nats.Telemetry]
	if natsURL := util.Env.GetNatsURL(); natsURL != "" {
		telemetry = pubsub.NewBroker[nats.Telemetry](config.SubscriberBuffer)
		nc, err := runWithNats(ctx, natsURL, manager, telemetry, config)
		if err != nil {
			return err
		}
		defer nc.Close()
	}

	server := rest.NewServer(manager, telemetry)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(fmt.Sprintf(":%d", util.Env.GetHTTPPort()))
	}()

	select {
	case <-ctx.Done():
		mainLogger.Info().Msg("Shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

func loadEngineConfig() (game.EngineConfig, error) {
	file := *engineConfigFile
	if file == "" {
		file = util.Env.GetEngineConfigFile()
	}
	if file == "" {
		mainLogger.Info().Msg("No engine config file given, using defaults")
		return game.DefaultEngineConfig(), nil
	}
	return game.ParseEngineConfig(file)
}

func newHandStore(ctx context.Context) (game.HandStore, error) {
	method := util.Env.GetPersistMethod()
	mainLogger.Info().Msgf("Persist method: %s", method)
	switch method {
	case "memory":
		return game.NewMemoryHandStore(), nil
	case "redis":
		return game.NewRedisHandStore(util.Env.GetRedisAddr(), util.Env.GetRedisPW(), util.Env.GetRedisDB()), nil
	case "postgres":
		db, err := sqlx.Open("postgres", util.Env.GetPostgresConnStr())
		if err != nil {
			return nil, errors.Wrap(err, "Unable to open postgres connection")
		}
		store := game.NewPostgresHandStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("Unknown persist method [%s]", method)
}

func newDealClient(seed int64) (game.DealClient, error) {
	addr := util.Env.GetDealerAddr()
	if addr == "" {
		mainLogger.Warn().Int64("seed", seed).Msg("No dealer address given, using the static dealer")
		return dealer.NewStaticDealer(seed), nil
	}
	return dealer.NewGrpcDealer(addr, util.Env.GetDealerRPS())
}

func runWithNats(ctx context.Context, natsURL string, manager *game.Manager, telemetry *pubsub.Broker[nats.Telemetry], config game.EngineConfig) (*natsgo.Conn, error) {
	mainLogger.Info().Msgf("NATS URL: %s", natsURL)
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrap(err, "Error connecting to NATS server")
	}
	nats.NewRelay(nc, manager.Broadcaster()).Start(ctx)
	if _, err := nats.NewTelemetryListener(nc, telemetry); err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "Error when creating telemetry listener")
	}
	if _, err := nats.NewActionListener(nc, manager, config.DealTimeout()+config.StoreTimeout()*2); err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "Error when creating action listener")
	}
	return nc, nil
}

func serveDealer(ctx context.Context, addr string, static *dealer.StaticDealer) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Unable to listen on [%s]", addr))
	}
	s := grpc.NewServer()
	dealer.RegisterServer(s, &dealer.StaticServer{Dealer: static})
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()
	mainLogger.Info().Msgf("Static dealer listening on %s", addr)
	return s.Serve(lis)
}
