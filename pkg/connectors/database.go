// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package connectors

import (
	"context"
	"fmt"

	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/rapidaai/scribe/pkg/configs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// DatabaseConnector hands out gorm sessions bound to a context.
type DatabaseConnector interface {
	Connect(ctx context.Context) error
	DB(ctx context.Context) *gorm.DB
	Disconnect(ctx context.Context) error
	Name() string
}

type databaseConnector struct {
	cfg    configs.ArchiveConfig
	logger commons.Logger
	db     *gorm.DB
}

func NewDatabaseConnector(cfg configs.ArchiveConfig, logger commons.Logger) DatabaseConnector {
	return &databaseConnector{cfg: cfg, logger: logger}
}

func (c *databaseConnector) Name() string {
	return fmt.Sprintf("%s://archive", c.cfg.Driver)
}

func (c *databaseConnector) dialector() (gorm.Dialector, error) {
	switch c.cfg.Driver {
	case "postgres":
		return postgres.Open(c.cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(c.cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported archive driver %q", c.cfg.Driver)
	}
}

func (c *databaseConnector) Connect(ctx context.Context) error {
	dialector, err := c.dialector()
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		c.logger.Errorf("unable to open %s: %v", c.Name(), err)
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if c.cfg.MaxOpenConnection > 0 {
		sqlDB.SetMaxOpenConns(c.cfg.MaxOpenConnection)
	}
	if c.cfg.MaxIdealConnection > 0 {
		sqlDB.SetMaxIdleConns(c.cfg.MaxIdealConnection)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", c.Name(), err)
	}
	c.db = db
	c.logger.Infof("connected to %s", c.Name())
	return nil
}

func (c *databaseConnector) DB(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

func (c *databaseConnector) Disconnect(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
