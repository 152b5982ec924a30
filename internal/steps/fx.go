package steps

import (
	"github.com/wellnesthq/wellnest/internal/steps/service"
	"go.uber.org/fx"
)

var Module = fx.Module("steps.service",
	fx.Provide(service.NewService),
)
