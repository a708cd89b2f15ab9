package earnings

import (
	"github.com/smallbiznis/yieldbook/internal/earnings/repository"
	"github.com/smallbiznis/yieldbook/internal/earnings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("earnings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
