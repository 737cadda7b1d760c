package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"visitlens/api/config"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
	log  *zap.Logger
}

const visitsSchema = `
	CREATE TABLE IF NOT EXISTS page_visits (
		visit_id     UUID,
		timestamp    DateTime64(3, 'UTC'),
		path         String,
		user_agent   String,
		referrer     Nullable(String),
		screen_width Nullable(Int32),
		ip_address   String,
		country      Nullable(String),
		country_code Nullable(String),
		city         Nullable(String),
		region       Nullable(String),
		latitude     Nullable(Float64),
		longitude    Nullable(Float64)
	) ENGINE = MergeTree
	ORDER BY (timestamp, visit_id)
`

func NewClickHouseDB(ctx context.Context, cfg config.ClickHouseConfig, log *zap.Logger) (*ClickHouseClient, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("clickhouse host and database must be set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "visitlens-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := conn.Exec(ctx, visitsSchema); err != nil {
		return nil, fmt.Errorf("failed to create page_visits table: %w", err)
	}

	log.Info("Connected to ClickHouse",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))
	return &ClickHouseClient{Conn: conn, log: log}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn == nil {
		return
	}
	if err := c.Conn.Close(); err != nil {
		c.log.Error("Failed to close ClickHouse connection", zap.Error(err))
		return
	}
	c.log.Info("ClickHouse connection closed")
}
