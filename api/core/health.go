package core

import (
	"context"
	"time"

	"github.com/fotonatura/portfolio-api/database/dbcore"
	"github.com/fotonatura/portfolio-api/internal/uploads"
)

func checkDatabaseHealth() string {
	if err := dbcore.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(uploadService *uploads.Service) string {
	if uploadService == nil {
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uploadService.Health(ctx); err != nil {
		return "error: " + err.Error()
	}

	return "ok"
}
