// Command server runs the falcon users HTTP service.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/falconusers/internal/buildinfo"
	"github.com/dmitrijs2005/falconusers/internal/server"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("starting server: %v", err)
	}

	app.Run(ctx)
}
