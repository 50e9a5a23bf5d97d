package main

import (
	"github.com/humanbelnik/kinoreview/internal/app"
	"github.com/humanbelnik/kinoreview/internal/config"
)

// @title Kinoreview API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Go(config.Load())
}
