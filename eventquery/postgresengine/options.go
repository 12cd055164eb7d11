package postgresengine

// Logger interface for rendered SQL logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring a QueryBuilder.
type Option func(*QueryBuilder) error

// WithTableName sets the events table name for the QueryBuilder.
func WithTableName(tableName string) Option {
	return func(qb *QueryBuilder) error {
		if tableName == "" {
			return ErrEmptyEventsTableName
		}

		qb.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the QueryBuilder.
// The logger will receive messages at different levels based on the logger's
// configured level:
//
// Debug level: rendered SQL statements with their source predicate
// Error level: failures while rendering a predicate to SQL.
func WithLogger(logger Logger) Option {
	return func(qb *QueryBuilder) error {
		qb.logger = logger
		return nil
	}
}
