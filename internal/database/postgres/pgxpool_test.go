package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"skill-bridge/internal/config"
)

func TestPoolConfig(t *testing.T) {
	pcfg, err := PoolConfig(config.DatabaseConfig{
		DBHost:         "db.local",
		DBPort:         "6543",
		DBName:         "skillbridge",
		DBUser:         "app",
		DBPassword:     "p w'd",
		ConnectTimeout: 3 * time.Second,
		PoolMaxConns:   7,
	})
	if err != nil {
		t.Fatalf("PoolConfig: %v", err)
	}

	cc := pcfg.ConnConfig
	if cc.Host != "db.local" || cc.Port != 6543 || cc.Database != "skillbridge" || cc.User != "app" {
		t.Fatalf("unexpected conn config: host=%s port=%d db=%s user=%s", cc.Host, cc.Port, cc.Database, cc.User)
	}
	if cc.Password != "p w'd" {
		t.Fatalf("password not preserved: %q", cc.Password)
	}
	if cc.ConnectTimeout != 3*time.Second || pcfg.MaxConns != 7 {
		t.Fatalf("pool settings not applied")
	}
	if cc.RuntimeParams["application_name"] != "skill-bridge" {
		t.Fatalf("expected application_name")
	}
}

func TestPoolConfig_InvalidPort(t *testing.T) {
	if _, err := PoolConfig(config.DatabaseConfig{DBHost: "h", DBName: "d", DBPort: "abc"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConnect_Integration(t *testing.T) {
	host := os.Getenv("SKILLBRIDGE_TEST_DB_HOST")
	if host == "" {
		t.Skip("missing SKILLBRIDGE_TEST_DB_HOST")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     os.Getenv("SKILLBRIDGE_TEST_DB_PORT"),
		DBName:     os.Getenv("SKILLBRIDGE_TEST_DB_NAME"),
		DBUser:     os.Getenv("SKILLBRIDGE_TEST_DB_USER"),
		DBPassword: os.Getenv("SKILLBRIDGE_TEST_DB_PASSWORD"),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(ctx, `SELECT 1`)
	if err != nil {
		t.Fatalf("select 1: %v", err)
	}
	defer rows.Close()
	var one int
	if !rows.Next() {
		t.Fatalf("select 1: no rows: %v", rows.Err())
	}
	if err := rows.Scan(&one); err != nil || one != 1 {
		t.Fatalf("scan: %v", err)
	}
}
