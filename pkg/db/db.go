// Package db provides the shared gorm connection.
package db

import (
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open connects to Postgres when DATABASE_URL is set, otherwise falls back to
// a local sqlite file so the service runs without external infrastructure.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	if cfg.DatabaseURL != "" {
		conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", zap.String("driver", "postgres"))
		return conn, nil
	}

	conn, err := gorm.Open(sqlite.Open("smartrental.db"), gormCfg)
	if err != nil {
		return nil, err
	}
	log.Warn("DATABASE_URL not set, using local sqlite database")
	return conn, nil
}
