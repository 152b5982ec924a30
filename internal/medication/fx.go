package medication

import (
	"github.com/wellnesthq/wellnest/internal/medication/service"
	"go.uber.org/fx"
)

var Module = fx.Module("medication.service",
	fx.Provide(service.NewService),
)
