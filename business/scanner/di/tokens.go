// Package di contains dependency injection tokens for the scanner context.
package di

import (
	"github.com/ardika/scanarb/business/scanner/app"
	"github.com/ardika/scanarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scanner = di.NewToken[*app.Scanner]("scanner.Scanner")
)

// Private dependency tokens - internal to the scanner module
var (
	Reporter = di.NewToken[app.Reporter]("scanner:reporter")
)

// Helper functions for type-safe access
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
