package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/iudanet/xbookmarks/internal/app"
	"github.com/iudanet/xbookmarks/internal/config"
	"github.com/iudanet/xbookmarks/internal/logger"
	"github.com/iudanet/xbookmarks/internal/server"
)

// Version is set via ldflags during build
var Version = "dev"

func main() {
	// config files are optional here, the function is normally configured from XB_* variables
	cfg, err := config.LoadConfig(os.Getenv("XB_CONFIG"))
	if err != nil {
		fail(err)
	}

	log, err := logger.New(os.Stdout, cfg.Logging.Level, "json")
	if err != nil {
		fail(err)
	}

	application, err := app.Open(context.Background(), cfg, log, Version)
	if err != nil {
		fail(err)
	}
	defer application.Close()

	lambda.Start(server.LambdaHandler(application.Handler))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "xbookmarks: %v\n", err)
	os.Exit(1)
}
