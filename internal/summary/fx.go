package summary

import (
	"github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary.service",
	fx.Provide(service.NewService),
	fx.Provide(func(s domain.Service) domain.Recomputer { return s }),
)
