package usecase

import (
	"context"
	"time"
)

// Pinger is a dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	database Pinger
	redis    Pinger
}

// NewHealthUsecase reports on the database and, when configured, Redis. Nil pingers are skipped.
func NewHealthUsecase(database, redis Pinger) HealthUsecase {
	return &healthUsecase{database: database, redis: redis}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	status["database"] = probe(ctx, u.database)
	status["redis"] = probe(ctx, u.redis)
	if status["database"] == "down" {
		status["status"] = "degraded"
	}
	return status
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "ok"
}
