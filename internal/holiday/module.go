package holiday

import (
	"time"

	"go.uber.org/fx"

	"github.com/Additional-Code/orderdesk/internal/config"
)

// Module provides the holiday calendar to Fx.
var Module = fx.Provide(New)

// New builds the process calendar: the built-in holidays of the current year
// plus any configured extra dates.
func New(cfg config.Config) (Calendar, error) {
	extra, err := ParseDates(cfg.Calendar.ExtraHolidays, time.Local)
	if err != nil {
		return nil, err
	}
	return Default(time.Now()).With(extra...), nil
}
