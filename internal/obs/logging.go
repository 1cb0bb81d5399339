// Package obs contains observability utilities such as logging.
package obs

import "go.uber.org/zap"

// NewLogger builds the production JSON logger used across the service.
func NewLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
