package main

import (
	"insightly/cmd/handlers"
	"insightly/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
