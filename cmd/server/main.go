package main

import (
	"flag"
	"log"

	approuters "github.com/Rishu1724/TextMeIfYouCan/internal/app_routers"
	"github.com/Rishu1724/TextMeIfYouCan/internal/configuration"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	container, err := configuration.BuildContainer(*configPath)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// Ensure cleanup on shutdown
	defer container.Close()

	approuters.StartServer(container)
}
