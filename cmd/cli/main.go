package main

import (
	"context"
	"log"
	"os"

	"github.com/pastefconnect/memberctl/internal/buildinfo"
	"github.com/pastefconnect/memberctl/internal/client/cli"
	"github.com/pastefconnect/memberctl/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
