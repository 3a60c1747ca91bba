package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/tictactoe-robot/internal/camera"
	"github.com/rocketscienceinc/tictactoe-robot/internal/config"
	"github.com/rocketscienceinc/tictactoe-robot/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-robot/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-robot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-robot/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-robot/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-robot/internal/transport/serial"
	"github.com/rocketscienceinc/tictactoe-robot/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-robot/internal/vision"
	"github.com/rocketscienceinc/tictactoe-robot/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gridLocator, err := vision.NewGridLocator(conf.Detection.GridStrategy)
	if err != nil {
		return fmt.Errorf("invalid detection config: %w", err)
	}

	variant, err := vision.VariantByName(conf.Detection.Reader)
	if err != nil {
		return fmt.Errorf("invalid detection config: %w", err)
	}

	method, err := tictactoe.ParseMethod(conf.Search.Method)
	if err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}

	capture, err := camera.Open(logger, camera.Settings{
		Index:      conf.Camera.Index,
		Width:      conf.Camera.Width,
		Height:     conf.Camera.Height,
		FPS:        conf.Camera.FPS,
		Continuous: conf.Camera.Continuous,
	})
	if err != nil {
		return fmt.Errorf("could not open camera: %w", err)
	}

	defer func() {
		if err = capture.Close(); err != nil {
			log.Error("could not close camera", "error", err)
		}
	}()

	port, err := serial.Open(conf.Serial.Port, conf.Serial.Baud, conf.Serial.PollTimeout)
	if err != nil {
		return fmt.Errorf("could not open serial port: %w", err)
	}

	defer func() {
		if err = port.Close(); err != nil {
			log.Error("could not close serial port", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	robotMetrics := metrics.New(registry)

	deps := usecase.Dependencies{
		Frames:   capture,
		Grid:     gridLocator,
		Pieces:   vision.NewPieceLocator(),
		Board:    vision.NewBoardReader(variant),
		Commands: protocol.NewDecoder(port),
		Messages: protocol.NewWriter(port),
		Metrics:  robotMetrics,
	}

	if conf.Redis.Enabled {
		redisStorage, redisErr := storage.New(ctx, conf.Redis.GetRedisAddr())
		if redisErr != nil {
			return fmt.Errorf("could not connect to redis storage: %w", redisErr)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		deps.Games = repository.NewGameRepository(redisStorage)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	if conf.HTTP.Enabled {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTP.Port)
			if httpErr := rest.Start(ctx, conf.HTTP.Port, registry); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
				httpErrCh <- httpErr
			}
		}()
	}

	robot := usecase.NewRobot(logger, deps, usecase.Options{
		Method:    method,
		Interval:  conf.Loop.Interval,
		MaxFaults: conf.Loop.MaxFaults,
	})

	robotErrCh := make(chan error, 1)
	go func() {
		robotErrCh <- robot.Run(ctx)
	}()

	select {
	case err = <-httpErrCh:
		cancel()
		<-robotErrCh
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-robotErrCh:
		if err != nil {
			return fmt.Errorf("control loop failed: %w", err)
		}

		log.Info("Application context canceled, shutting down")
		return nil
	}
}
