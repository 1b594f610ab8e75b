package aiusage

import "errors"

// ErrQuotaExceeded is returned when a client has no plans remaining for the current month.
var ErrQuotaExceeded = errors.New("monthly plan allowance exhausted")

// DefaultMonthlyPlans is the number of plan runs granted per client per month.
const DefaultMonthlyPlans = 30

// Schema creates the plan_usage table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS plan_usage (
	client_id TEXT PRIMARY KEY,
	plans_remaining INT NOT NULL,
	last_reset_month TEXT NOT NULL
)`
