package controllers

import (
	"net/http"

	"github.com/gestorecommerce/catalog-backend/api/responses"
	"github.com/gestorecommerce/catalog-backend/pkg/config"
	"github.com/gestorecommerce/catalog-backend/pkg/db"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

const envHeader = "X-Gestor-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the mirror database, redis and the storefront before
// reporting ready. Nil dependencies are skipped so partial deployments still
// answer. The ERP is left out: it has no cheap probe, only paid query runs.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, storefrontP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		failed := false

		probe := func(name string, p db.Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(r.Context()); err != nil {
				checks[name] = err.Error()
				failed = true
				return
			}
			checks[name] = "ok"
		}

		probe("db", dbP)
		probe("redis", redisP)
		probe("woo", storefrontP)

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
