/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           Showbay Task API
// @version         1.0
// @description     Task management API with optional enrichment from an external HTTP API
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
package main

import "github.com/Nikhil88689/Showbay/cmd"

func main() {
	cmd.Execute()
}
