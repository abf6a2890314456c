package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/falconusers/internal/buildinfo"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
	"github.com/dmitrijs2005/falconusers/internal/useradmin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		useradmin.Usage(os.Stderr)
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1]); err != nil {
		log.Fatalf("%v", err)
	}

}

func run(ctx context.Context, command string) error {
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	rm, err := repomanager.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer rm.Close()

	if err := rm.RunMigrations(ctx); err != nil {
		return err
	}

	app := useradmin.NewApp(services.NewAdminService(rm, cfg, logger), rm.Users(), os.Stdin, os.Stdout)
	return app.Run(ctx, command)
}
