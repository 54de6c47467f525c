package postgres

const migration001Up = `
CREATE TABLE IF NOT EXISTS portal_sessions (
    namespace  VARCHAR(64)  NOT NULL,
    key        VARCHAR(128) NOT NULL,
    value      TEXT         NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    PRIMARY KEY (namespace, key)
);
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_portal_sessions",
			UpSQL:   migration001Up,
		},
	}
}
