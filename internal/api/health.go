package api

import (
	"context"
	"log"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/football-roster/internal/repository"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

func MustNewHealthChecker(version string, checks ...health.Config) HealthChecker {
	h, err := health.New(health.WithComponent(health.Component{Name: "football-roster", Version: version}))
	if err != nil {
		log.Fatal("failed to create health checker:", err)
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			log.Fatal("failed to register health check:", err)
		}
	}

	return &healthChecker{
		health: h,
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}

// StoreCheck pings the team store. A failing store reports the service as
// partially available instead of down.
func StoreCheck(teams func() repository.TeamRepository) health.Config {
	return health.Config{
		Name:      "store",
		Timeout:   5 * time.Second,
		SkipOnErr: true,
		Check: func(ctx context.Context) error {
			return teams().Ping(ctx)
		},
	}
}
