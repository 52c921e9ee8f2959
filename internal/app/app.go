// Package app wires configuration into a ready hazard service. Both the HTTP
// server and the stream Lambda build their runtime through New.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hazard-notifier/internal/application/dispatch"
	"github.com/hazard-notifier/internal/application/hazard"
	"github.com/hazard-notifier/internal/config"
	"github.com/hazard-notifier/internal/infrastructure/awscfg"
	"github.com/hazard-notifier/internal/infrastructure/dynamo"
	"github.com/hazard-notifier/internal/infrastructure/fcm"
	firebaseinfra "github.com/hazard-notifier/internal/infrastructure/firebase"
	firestoreinfra "github.com/hazard-notifier/internal/infrastructure/firestore"
	"github.com/hazard-notifier/internal/infrastructure/postgres"
	redisinfra "github.com/hazard-notifier/internal/infrastructure/redis"
	s3infra "github.com/hazard-notifier/internal/infrastructure/s3"
	"github.com/hazard-notifier/internal/infrastructure/sns"
)

// App holds the wired service and the resources that must be released on exit.
type App struct {
	Hazards hazard.Service
	closers []func() error
}

// NewLogger returns a JSON logger at the given level name.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// New builds the dispatch pipeline and the hazard service around it.
// Redis and S3 are optional and only wired when configured.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{}
	awsCfg, err := awscfg.Load(ctx, cfg, "")
	if err != nil {
		return nil, err
	}
	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	var fbApp *firebase.App
	firebaseApp := func() (*firebase.App, error) {
		if fbApp != nil {
			return fbApp, nil
		}
		var err error
		fbApp, err = firebaseinfra.NewApp(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		return fbApp, err
	}

	directory, err := a.directory(ctx, cfg, dynamoClient, firebaseApp)
	if err != nil {
		a.Close()
		return nil, err
	}
	transport, err := a.transport(ctx, cfg, awsCfg, firebaseApp)
	if err != nil {
		a.Close()
		return nil, err
	}

	coordinator := dispatch.NewCoordinator(dispatch.CoordinatorDeps{
		Directory:    directory,
		Transport:    transport,
		RadiusMeters: cfg.RadiusMeters,
		Logger:       log,
	})

	deps := hazard.Deps{
		Dispatcher: coordinator,
		Store:      dynamo.NewDispatchRepo(dynamoClient, cfg.DynamoTables.Dispatches),
		Logger:     log,
	}
	if cfg.RedisURL != "" {
		rdb, err := redisinfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("dedupe guard disabled", "err", err)
		} else {
			a.closers = append(a.closers, rdb.Close)
			deps.Guard = redisinfra.NewGuard(rdb, cfg.DedupeTTL)
		}
	}
	if cfg.S3BucketName != "" {
		deps.Archive = s3infra.NewArchive(s3infra.NewClient(awsCfg, cfg.AWSEndpointURL), cfg.S3BucketName, cfg.S3ArchivePrefix)
	}
	a.Hazards = hazard.NewService(deps)

	log.Info("dispatch pipeline ready",
		"directory", cfg.DirectoryBackend,
		"transport", cfg.PushTransport,
		"radius_m", cfg.RadiusMeters,
		"dedupe", deps.Guard != nil,
		"archive", deps.Archive != nil,
	)
	return a, nil
}

func (a *App) directory(ctx context.Context, cfg *config.Config, dynamoClient *dynamodb.Client, firebaseApp func() (*firebase.App, error)) (dispatch.Directory, error) {
	switch cfg.DirectoryBackend {
	case config.BackendDynamo:
		return dynamo.NewDirectoryRepo(dynamoClient, cfg.DynamoTables.Responders, cfg.DynamoTables.Users), nil
	case config.BackendFirestore:
		fb, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firestore: %w", err)
		}
		d := firestoreinfra.NewDirectory(client, cfg.FirestoreCollections.Responders, cfg.FirestoreCollections.Users)
		a.closers = append(a.closers, d.Close)
		return d, nil
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.DBConn)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return postgres.NewDirectory(db), nil
	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}

func (a *App) transport(ctx context.Context, cfg *config.Config, awsCfg aws.Config, firebaseApp func() (*firebase.App, error)) (dispatch.Transport, error) {
	switch cfg.PushTransport {
	case config.TransportFCM:
		fb, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		return fcm.NewTransport(ctx, fb)
	case config.TransportSNS:
		snsCfg := awsCfg.Copy()
		snsCfg.Region = cfg.SNSRegion
		return sns.NewTransport(sns.NewClient(snsCfg, cfg.AWSEndpointURL)), nil
	default:
		return nil, fmt.Errorf("unknown push transport %q", cfg.PushTransport)
	}
}

// Close releases every resource opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}
