package action

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ayusman/mudra/internal/action"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
