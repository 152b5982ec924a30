package meal

import (
	"github.com/wellnesthq/wellnest/internal/meal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meal.service",
	fx.Provide(service.NewService),
)
