package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tourgo/internal/client/cli"
	"github.com/dmitrijs2005/tourgo/internal/client/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(2)
	}

	app := cli.NewApp(cfg)
	app.Run(ctx)

}
