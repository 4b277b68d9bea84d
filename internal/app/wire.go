//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"shelfsync/internal/domain"
)

func InitializeApplication(cfg domain.Config, logging LoggingConfig) (*Application, error) {
	wire.Build(AppSet)
	return nil, nil
}
