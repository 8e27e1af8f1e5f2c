package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Image-Gallery/config"
	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi"
	"github.com/andreyxaxa/Image-Gallery/internal/infrastructure/processor"
	"github.com/andreyxaxa/Image-Gallery/internal/repo"
	"github.com/andreyxaxa/Image-Gallery/internal/repo/persistent"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase/image"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase/optimizer"
	"github.com/andreyxaxa/Image-Gallery/pkg/cloudinaryclient"
	"github.com/andreyxaxa/Image-Gallery/pkg/httpserver"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
	"github.com/andreyxaxa/Image-Gallery/pkg/s3client"
)

// _multipartOverhead leaves room for multipart boundaries and form fields
// on top of the raw file payload, so the body limit never rejects a file
// the validation layer would have accepted.
const _multipartOverhead = 1 << 20

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Storage Gateway
	var gateway repo.ImageGateway

	switch cfg.Storage.Provider {
	case config.ProviderS3:
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
		defer s3Cancel()

		s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
		}

		gateway = persistent.NewS3Gateway(s3c, cfg.S3.PublicURL, cfg.S3.StorageLimit)
	default:
		cldc, err := cloudinaryclient.New(ctx, cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - cloudinaryclient.New: %w", err))
		}

		gateway = persistent.NewCloudinaryGateway(cldc)
	}

	// Use-Case

	// optimizer use-case
	optimizerUseCase := optimizer.New(processor.New(), l)

	// image use-case
	imageUseCase := image.New(gateway, optimizerUseCase, l)

	// HTTP Server
	httpServer := httpserver.New(
		l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(int(cfg.Upload.MaxFileSize)+_multipartOverhead),
		httpserver.ErrorHandler(restapi.ErrorHandler(cfg, l)),
	)
	restapi.NewRouter(httpServer.App, cfg, imageUseCase, l)

	// Start Components
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err := <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err := httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
