package main

import (
	"github.com/politiquices/politiquices-api/internal/server"
	"github.com/politiquices/politiquices-api/internal/util"
	"github.com/politiquices/politiquices-api/pkg/logger"
	"github.com/politiquices/politiquices-api/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
