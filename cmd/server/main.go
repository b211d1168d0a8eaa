package main

import "tasktracker/internal/app"

// @title          Task Tracker API
// @version        1.0
// @description    Multi-tenant task tracking backend.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
