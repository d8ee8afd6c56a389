package businessday

import "go.uber.org/fx"

// Module provides the business-day calculator to Fx.
var Module = fx.Provide(NewCalculator)
