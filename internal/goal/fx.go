package goal

import (
	"github.com/wellnesthq/wellnest/internal/goal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("goal.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewProfileStore),
)
