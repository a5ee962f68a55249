package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing registers the otelgorm plugin so database queries show
// up as child spans of the request trace. Query variables are excluded from
// span attributes.
func RegisterDBTracing(db *gorm.DB, dbName string, logger *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.String("db_name", dbName))
	return nil
}
