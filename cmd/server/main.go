package main

import "vena/internal/app"

// @title           Vena Pictures API
// @version         1.0
// @description     Lead-to-booking pipeline for a photography vendor.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	app.Run()
}
