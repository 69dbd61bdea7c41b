package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		plan TEXT NOT NULL DEFAULT 'starter',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createDomainTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE domains (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		host TEXT UNIQUE NOT NULL,
		kind TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		price REAL,
		next_billing_at DATETIME,
		billing_ref TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createAPIKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id TEXT PRIMARY KEY,
		domain_id TEXT NOT NULL,
		key_prefix TEXT NOT NULL,
		key_hash TEXT NOT NULL UNIQUE,
		secret_masked TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		revoked_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX api_keys_one_active_per_domain
		ON api_keys (domain_id)
		WHERE is_active AND deleted_at IS NULL;`)
}

func seedAccount(t *testing.T, db *gorm.DB, plan string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	mustExec(t, db, `INSERT INTO accounts(id,email,name,password_hash,plan,created_at,updated_at) VALUES (?,?,?,?,?,?,?)`,
		id.String(), fmt.Sprintf("%s@example.com", id.String()[:8]), "Test Account", "x", plan, now, now)
	return id
}

func seedDomain(t *testing.T, db *gorm.DB, accountID uuid.UUID, host, kind string, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	mustExec(t, db, `INSERT INTO domains(id,account_id,host,kind,is_active,created_at,updated_at) VALUES (?,?,?,?,?,?,?)`,
		id.String(), accountID.String(), host, kind, active, now, now)
	return id
}
