package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// SapConfigRepository persists the single administered SAP connector
// configuration row.
type SapConfigRepository struct {
	db *sqlx.DB
}

// NewSapConfigRepository constructs the repository.
func NewSapConfigRepository(db *sqlx.DB) *SapConfigRepository {
	return &SapConfigRepository{db: db}
}

const sapConfigColumns = `hostname, system_number, client, language, connection_timeout, max_pool_size,
	authentication_type, use_mock_connection, username, password, snc_library_path, snc_partner_name, snc_qop, updated_at`

// Get loads the current connector configuration.
func (r *SapConfigRepository) Get(ctx context.Context) (*models.SapConnectionConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM sap_connection_config WHERE id = 1`, sapConfigColumns)
	var cfg models.SapConnectionConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save upserts the connector configuration. An empty password on the incoming
// config keeps the stored one.
func (r *SapConfigRepository) Save(ctx context.Context, cfg *models.SapConnectionConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO sap_connection_config (id, hostname, system_number, client, language, connection_timeout, max_pool_size,
		authentication_type, use_mock_connection, username, password, snc_library_path, snc_partner_name, snc_qop, updated_at)
	VALUES (1, :hostname, :system_number, :client, :language, :connection_timeout, :max_pool_size,
		:authentication_type, :use_mock_connection, :username, :password, :snc_library_path, :snc_partner_name, :snc_qop, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		hostname = EXCLUDED.hostname,
		system_number = EXCLUDED.system_number,
		client = EXCLUDED.client,
		language = EXCLUDED.language,
		connection_timeout = EXCLUDED.connection_timeout,
		max_pool_size = EXCLUDED.max_pool_size,
		authentication_type = EXCLUDED.authentication_type,
		use_mock_connection = EXCLUDED.use_mock_connection,
		username = EXCLUDED.username,
		password = CASE WHEN EXCLUDED.password = '' THEN sap_connection_config.password ELSE EXCLUDED.password END,
		snc_library_path = EXCLUDED.snc_library_path,
		snc_partner_name = EXCLUDED.snc_partner_name,
		snc_qop = EXCLUDED.snc_qop,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("save sap connection config: %w", err)
	}
	return nil
}
