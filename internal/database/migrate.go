// internal/database/migrate.go
//
// Idempotent schema bootstrap.
//
// Context:
//   - The synchroniser owns exactly two tables, so schema management is
//     a pair of CREATE TABLE IF NOT EXISTS statements executed at boot
//     rather than a migration framework.  Re-running them against an
//     existing schema is a no-op.
//   - `vehicle_condition` is spelled out because `condition` is a
//     reserved word in MySQL 8.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const createVehicleTable = `
CREATE TABLE IF NOT EXISTS vehicle (
    vin               VARCHAR(17)  NOT NULL,
    year              INT          NOT NULL DEFAULT 0,
    make              VARCHAR(64)  NULL,
    model             VARCHAR(64)  NULL,
    trim              VARCHAR(128) NULL,
    price             INT          NOT NULL DEFAULT 0,
    miles             INT          NOT NULL DEFAULT 0,
    vehicle_condition VARCHAR(32)  NULL,
    body_style        VARCHAR(64)  NULL,
    image_urls        MEDIUMTEXT   NULL,
    primary_image_url VARCHAR(512) NOT NULL DEFAULT '',
    total_photos      INT          NOT NULL DEFAULT 0,
    transmission      VARCHAR(64)  NULL,
    fuel_type         VARCHAR(64)  NULL,
    drive             VARCHAR(64)  NULL,
    exterior_color    VARCHAR(64)  NULL,
    interior_color    VARCHAR(64)  NULL,
    doors             VARCHAR(16)  NULL,
    cylinders         VARCHAR(16)  NULL,
    description       MEDIUMTEXT   NULL,
    options           MEDIUMTEXT   NULL,
    dealer_id         VARCHAR(64)  NULL,
    dealer_name       VARCHAR(128) NULL,
    address           VARCHAR(255) NULL,
    city              VARCHAR(64)  NULL,
    state             VARCHAR(32)  NULL,
    zip               VARCHAR(16)  NULL,
    url               VARCHAR(512) NULL,
    certified         TINYINT(1)   NOT NULL DEFAULT 0,
    latitude          DOUBLE       NULL,
    longitude         DOUBLE       NULL,
    dma               VARCHAR(64)  NULL,
    radius            INT          NULL,
    payout            INT          NULL,
    priority          INT          NULL,
    dol               INT          NULL,
    is_active         TINYINT(1)   NOT NULL DEFAULT 1,
    last_sync         DATETIME     NOT NULL,
    created_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (vin),
    KEY idx_vehicle_active (is_active)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createSyncLogTable = `
CREATE TABLE IF NOT EXISTS vehicle_sync_log (
    id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    run_id           CHAR(36)        NOT NULL,
    started_at       DATETIME        NOT NULL,
    finished_at      DATETIME        NOT NULL,
    added            INT             NOT NULL DEFAULT 0,
    updated          INT             NOT NULL DEFAULT 0,
    removed          INT             NOT NULL DEFAULT 0,
    success          TINYINT(1)      NOT NULL DEFAULT 0,
    error_text       TEXT            NULL,
    duration_seconds INT             NOT NULL DEFAULT 0,
    PRIMARY KEY (id),
    KEY idx_sync_log_started (started_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate creates the vehicle and sync-log tables when they do not
// already exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range []struct {
		name string
		sql  string
	}{
		{"vehicle", createVehicleTable},
		{"vehicle_sync_log", createSyncLogTable},
	} {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			return fmt.Errorf("database: create table %s: %w", stmt.name, err)
		}
	}
	return nil
}
