// api/store/visit_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"visitlens/api/models"
)

// VisitStore is the append-only visit log kept in ClickHouse.
type VisitStore struct {
	conn clickhouse.Conn
	log  *zap.Logger
}

func NewVisitStore(conn clickhouse.Conn, log *zap.Logger) *VisitStore {
	return &VisitStore{conn: conn, log: log}
}

// InsertVisit appends one visit and returns its generated id.
func (s *VisitStore) InsertVisit(ctx context.Context, v models.VisitRecord) (string, error) {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO page_visits (
			visit_id, timestamp, path, user_agent, referrer, screen_width, ip_address,
			country, country_code, city, region, latitude, longitude
		)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare visit insert: %w", err)
	}

	id := uuid.New()
	var width *int32
	if v.ScreenWidth != nil {
		w := int32(*v.ScreenWidth)
		width = &w
	}

	if err := batch.Append(
		id,
		v.Timestamp,
		v.Path,
		v.UserAgent,
		v.Referrer,
		width,
		v.IP,
		v.Country,
		v.CountryCode,
		v.City,
		v.Region,
		v.Latitude,
		v.Longitude,
	); err != nil {
		return "", fmt.Errorf("failed to append visit: %w", err)
	}

	if err := batch.Send(); err != nil {
		return "", fmt.Errorf("failed to send visit batch: %w", err)
	}
	return id.String(), nil
}

// ListVisitsSince returns every visit at or after since, oldest first.
func (s *VisitStore) ListVisitsSince(ctx context.Context, since time.Time) ([]models.VisitRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT toString(visit_id), timestamp, path, user_agent, referrer, screen_width, ip_address,
			country, country_code, city, region, latitude, longitude
		FROM page_visits
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	visits := make([]models.VisitRecord, 0)
	for rows.Next() {
		var (
			v     models.VisitRecord
			width *int32
		)
		if err := rows.Scan(
			&v.VisitID,
			&v.Timestamp,
			&v.Path,
			&v.UserAgent,
			&v.Referrer,
			&width,
			&v.IP,
			&v.Country,
			&v.CountryCode,
			&v.City,
			&v.Region,
			&v.Latitude,
			&v.Longitude,
		); err != nil {
			s.log.Warn("Skipping unreadable visit row", zap.Error(err))
			continue
		}
		if width != nil {
			w := int(*width)
			v.ScreenWidth = &w
		}
		// both coordinates or neither
		if v.Latitude == nil || v.Longitude == nil {
			v.Latitude, v.Longitude = nil, nil
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during visits query: %w", err)
	}
	return visits, nil
}
