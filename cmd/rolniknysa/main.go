package main

import (
	"log"

	rolniknysa "github.com/Maathias/rolniknysa-backend"
)

func main() {
	cfg, err := rolniknysa.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := rolniknysa.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
