package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	RemoteDatabasePath string
	SessionSecret      string
	GinMode            string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// REMOTE_DATABASE_PATH 为空时服务以纯本地模式运行，不做远端同步。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "habitlog.db"
	}

	remoteDatabasePath := strings.TrimSpace(os.Getenv("REMOTE_DATABASE_PATH"))

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "habitlog-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		RemoteDatabasePath: remoteDatabasePath,
		SessionSecret:      sessionSecret,
		GinMode:            ginMode,
	}
}
