//go:build windows

package cmd

import "github.com/TypeDummying/AIuminum/pkg/logger"

// eventLogSource is the Event Log source the installer registers.
const eventLogSource = "Aluminum"

func openEventLog() (logger.Logger, error) {
	return logger.NewEventLogger(eventLogSource)
}
