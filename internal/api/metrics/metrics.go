// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Values of the "result" label.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultInactive           = "inactive"
	ResultDuplicate          = "duplicate"
	ResultNotFound           = "not_found"
	ResultReplay             = "replay"
	ResultError              = "error"
)

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts POST /token attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthenticationsTotal counts bearer-token checks on protected routes.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "error"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of bearer token authentications, by result.",
	},
	[]string{"result"},
)

// ── Account metrics ──────────────────────────────────────────────────────────

// OperationsTotal counts account CRUD operations.
// Labels:
//   - operation: "create", "get", "list", "replace", "patch", "delete"
//   - result: "success", "duplicate", "not_found", "replay" or "error"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)
