package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createApiKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		key_prefix TEXT NOT NULL,
		key_hash TEXT UNIQUE NOT NULL,
		secret_masked TEXT NOT NULL,
		capabilities TEXT NOT NULL,
		created_by TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_used_at DATETIME,
		expires_at DATETIME,
		usage_count INTEGER NOT NULL DEFAULT 0,
		rate_limit_per_hour INTEGER NOT NULL DEFAULT 100,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		name TEXT,
		password_hash TEXT,
		role TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUsageRecordTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE usage_records (
		id TEXT PRIMARY KEY,
		api_key_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		method TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME
	);`)
}

func createAuditEntryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_entries (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		actor_user_id TEXT,
		action TEXT NOT NULL,
		resource TEXT,
		status_code INTEGER NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		method TEXT,
		path TEXT,
		duration_ms INTEGER,
		metadata TEXT,
		created_at DATETIME
	);`)
}

func createDocumentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		content_type TEXT,
		size_bytes INTEGER,
		blob_key TEXT NOT NULL,
		uploaded_via TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
