package aggregate

import (
	"fmt"
	"time"

	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/metrics"
)

// Safe ejecuta una agregación midiendo su duración. Si fn entra en pánico, lo registra
// y devuelve un slice vacío. Nunca devuelve nil.
func Safe[T any](name string, log *logger.Logger, fn func() []T) (out []T) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RecordAggregationPanic(name)
			if log != nil {
				log.Error().Str("aggregation", name).Str("panic", fmt.Sprint(rec)).Msg("agregación falló; se devuelve vacío")
			}
			out = []T{}
			return
		}
		metrics.RecordAggregation(name, time.Since(start))
		if out == nil {
			out = []T{}
		}
	}()
	return fn()
}
