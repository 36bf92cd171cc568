// Package ratelimit implements fixed-window admission control backed by a
// persisted per-(identifier, action) counter.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/raagahub/moderation/internal/domain"
)

// Config is the static limit for one action type.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// configs is the fixed per-action limit table.
var configs = map[domain.Action]Config{
	domain.ActionComment:    {MaxRequests: 10, Window: 60 * time.Minute},
	domain.ActionCreatePost: {MaxRequests: 5, Window: 60 * time.Minute},
	domain.ActionDedication: {MaxRequests: 3, Window: 60 * time.Minute},
	domain.ActionReport:     {MaxRequests: 5, Window: 60 * time.Minute},
}

// ConfigFor returns the limit for an action. Asking for an unknown action
// is a programming error, not a runtime condition.
func ConfigFor(action domain.Action) Config {
	cfg, ok := configs[action]
	if !ok {
		panic(fmt.Sprintf("ratelimit: no config for action %q", action))
	}
	return cfg
}
