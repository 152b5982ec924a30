package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, node *snowflake.Node) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}
		return seed.EnsureStarterFoods(conn, node)
	}),
)
