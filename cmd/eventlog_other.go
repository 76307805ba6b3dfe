//go:build !windows

package cmd

import (
	"errors"

	"github.com/TypeDummying/AIuminum/pkg/logger"
)

func openEventLog() (logger.Logger, error) {
	return nil, errors.New("the event log is only available on Windows")
}
