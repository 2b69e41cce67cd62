package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// InitDevelopment switches to the human-readable console encoder. Used by
// the CLI client and available for local runs via -dev.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

func init() {
	// Packages may log before main calls Init (tests in particular).
	Log = zap.NewNop().Sugar()
}
