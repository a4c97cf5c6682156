package models

import "time"

// SapAuthType selects how the connector authenticates against SAP.
type SapAuthType string

const (
	SapAuthBasic SapAuthType = "BasicAuth"
	SapAuthSNC   SapAuthType = "SNC"
)

// SapConnectionConfig holds the administered SAP connector settings. The
// password is write-only: it is accepted on updates but never echoed back.
type SapConnectionConfig struct {
	Hostname           string      `db:"hostname" json:"hostname" validate:"required"`
	SystemNumber       string      `db:"system_number" json:"systemNumber" validate:"required"`
	Client             string      `db:"client" json:"client" validate:"required"`
	Language           string      `db:"language" json:"language"`
	ConnectionTimeout  int         `db:"connection_timeout" json:"connectionTimeout"`
	MaxPoolSize        int         `db:"max_pool_size" json:"maxPoolSize"`
	AuthenticationType SapAuthType `db:"authentication_type" json:"authenticationType"`
	UseMockConnection  bool        `db:"use_mock_connection" json:"useMockConnection"`
	Username           string      `db:"username" json:"username,omitempty"`
	Password           string      `db:"password" json:"password,omitempty"`
	SncLibraryPath     string      `db:"snc_library_path" json:"sncLibraryPath,omitempty"`
	SncPartnerName     string      `db:"snc_partner_name" json:"sncPartnerName,omitempty"`
	SncQop             string      `db:"snc_qop" json:"sncQop,omitempty"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updatedAt"`
}

// Redacted returns a copy safe to return to clients.
func (c SapConnectionConfig) Redacted() SapConnectionConfig {
	c.Password = ""
	return c
}

// ConnectionTestResult reports the outcome of a connection probe.
type ConnectionTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Latency string `json:"latency,omitempty"`
}
