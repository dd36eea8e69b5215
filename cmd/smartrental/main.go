package main

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/clock"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/contract"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/logger"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/migration"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/scheduler"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/seed"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/server"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/tracing"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/utility"
	"github.com/baovietz98/smart-rental-capstone-sub000/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		clock.Module,
		db.Module,
		fx.Provide(events.NewOutbox),
		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.SeedDefaultServices {
				return seed.EnsureDefaultServices(conn, node)
			}
			return nil
		}),
		contract.Module,
		utility.Module,
		ledger.Module,
		invoice.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}
