package main

import (
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"docstack.backend/internal/config"
	"docstack.backend/internal/infrastructure/storage"
	plog "docstack.backend/pkg/logger"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenDB := openDB
	origNewBlobStore := newBlobStore
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openDB = origOpenDB
		newBlobStore = origNewBlobStore
		runServer = origRunServer
	})
}

func baseTestConfig(blobDir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "docstack",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			URL:      "redis://localhost:6379",
			PASSWORD: "",
		},
		JWT: config.JWTConfig{
			Secret:        "secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Store:           "memory",
			DefaultPerHour:  100,
			CleanupInterval: time.Minute,
		},
		Chat: config.ChatConfig{
			UpstreamURL: "http://localhost:9090",
			Timeout:     time.Second,
		},
		Storage: config.StorageConfig{
			BlobDir: blobDir,
		},
	}
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return baseTestConfig(t.TempDir()) }
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_UnknownLimiterStore(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config {
		cfg := baseTestConfig(t.TempDir())
		cfg.RateLimit.Store = "etcd"
		return cfg
	}
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_limiter_err?mode=memory&cache=shared"), &gorm.Config{})
	}

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected unknown store error")
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config {
		cfg := baseTestConfig(t.TempDir())
		cfg.RateLimit.Store = "redis"
		return cfg
	}
	initLog = plog.Init
	initRedis = func(string, string) error { return errors.New("redis down") }
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_redis_err?mode=memory&cache=shared"), &gorm.Config{})
	}

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected redis init error")
	}
}

func TestRunMainProcess_BlobStoreError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return baseTestConfig(t.TempDir()) }
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_blob_err?mode=memory&cache=shared"), &gorm.Config{})
	}
	newBlobStore = func(string) (*storage.LocalBlobStore, error) { return nil, errors.New("mkdir denied") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected blob store error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return baseTestConfig(t.TempDir()) }
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_server_err?mode=memory&cache=shared"), &gorm.Config{})
	}
	runServer = func(*gin.Engine, string) error { return errors.New("listen failed") }

	err := runMainProcess()
	if err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_SuccessPath(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return baseTestConfig(t.TempDir()) }
	initLog = plog.Init
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_success?mode=memory&cache=shared"), &gorm.Config{})
	}
	runServer = func(*gin.Engine, string) error { return nil }

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
