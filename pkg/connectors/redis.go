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
	"github.com/redis/go-redis/v9"
)

type RedisConnector interface {
	Connect(ctx context.Context) error
	GetConnection() *redis.Client
	Disconnect(ctx context.Context) error
	Name() string
}

type redisConnector struct {
	cfg    configs.RedisConfig
	logger commons.Logger
	client *redis.Client
}

func NewRedisConnector(cfg configs.RedisConfig, logger commons.Logger) RedisConnector {
	return &redisConnector{cfg: cfg, logger: logger}
}

func (r *redisConnector) Name() string {
	return fmt.Sprintf("redis://%s:%d", r.cfg.Host, r.cfg.Port)
}

func (r *redisConnector) Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port),
		Password: r.cfg.Password,
		DB:       r.cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		r.logger.Errorf("unable to ping %s: %v", r.Name(), err)
		_ = client.Close()
		return err
	}
	r.client = client
	r.logger.Infof("connected to %s", r.Name())
	return nil
}

func (r *redisConnector) GetConnection() *redis.Client {
	return r.client
}

func (r *redisConnector) Disconnect(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
