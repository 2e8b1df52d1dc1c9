package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/handler"
	"github.com/habitlog/internal/router"
	"github.com/habitlog/internal/service"
)

func main() {
	// .env 不存在时直接使用进程环境变量
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 本地库存放状态快照
	localDB, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open local database: %v", err)
	}
	if err := db.MigrateLocal(localDB); err != nil {
		log.Fatalf("failed to migrate local database: %v", err)
	}

	// 远端库未配置时退化为纯本地模式
	var remote service.RemoteSync = service.NewDisabledRemoteSync()
	sessionDB := localDB
	if cfg.RemoteDatabasePath != "" {
		remoteDB, err := db.Open(cfg.RemoteDatabasePath)
		if err != nil {
			log.Fatalf("failed to open remote database: %v", err)
		}
		if err := db.MigrateRemote(remoteDB); err != nil {
			log.Fatalf("failed to migrate remote database: %v", err)
		}
		remote = service.NewRemoteSyncService(remoteDB)
		sessionDB = remoteDB
	}

	snapshots := service.NewSnapshotService(service.NewGormBlobStore(localDB))
	state := service.NewStateService(remote, snapshots)
	if err := state.RestoreSnapshot(); err != nil {
		log.Fatalf("failed to restore state snapshot: %v", err)
	}
	sessions := service.NewSessionService(sessionDB, remote)

	api := handler.NewAPI(state, sessions)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
