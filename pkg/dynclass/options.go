package dynclass

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/randalmurphal/dynclass/pkg/dynclass/config"
	"github.com/randalmurphal/dynclass/pkg/dynclass/ident"
	"github.com/randalmurphal/dynclass/pkg/dynclass/observability"
)

// classConfig holds the settings a Class is built from.
type classConfig struct {
	name      string
	methods   map[string]Method
	normalize ident.Normalizer
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
}

// defaultClassConfig returns the settings for a class with no options.
func defaultClassConfig() classConfig {
	return classConfig{
		methods:   map[string]Method{},
		normalize: ident.Identity,
		metrics:   observability.NoopMetrics{},
	}
}

// Option configures a record class.
type Option func(*classConfig)

// WithName sets the class name used in errors, logs and metrics.
// Default: a name derived from the class ID.
func WithName(name string) Option {
	return func(c *classConfig) {
		c.name = name
	}
}

// WithMethod adds a custom method. A method named like an accessor ("foo" or
// "foo=") takes precedence over the generated one for the life of the class.
//
// Example:
//
//	klass := dynclass.Define(
//	    dynclass.WithMethod("four", func(r *dynclass.Record, _ ...any) (any, error) {
//	        return 4, nil
//	    }),
//	)
func WithMethod(name string, m Method) Option {
	return func(c *classConfig) {
		if m != nil {
			c.methods[name] = m
		}
	}
}

// WithMethods adds several custom methods at once.
func WithMethods(methods map[string]Method) Option {
	return func(c *classConfig) {
		for name, m := range methods {
			if m != nil {
				c.methods[name] = m
			}
		}
	}
}

// WithNormalizer sets how raw field names are canonicalized before validation.
// Default: names are used as given.
func WithNormalizer(n ident.Normalizer) Option {
	return func(c *classConfig) {
		if n != nil {
			c.normalize = n
		}
	}
}

// WithSnakeCaseFields canonicalizes field names to snake_case, so "FirstName",
// "firstName" and "first_name" all name one field.
func WithSnakeCaseFields() Option {
	return WithNormalizer(ident.Snake)
}

// WithLowerCaseFields folds field names to lower case.
func WithLowerCaseFields() Option {
	return WithNormalizer(ident.Lower)
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *classConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *classConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// clone copies the config so a derived class can override it independently.
func (c classConfig) clone() classConfig {
	c.methods = maps.Clone(c.methods)
	return c
}

// OptionsFromConfig maps configuration keys onto class options.
//
// Recognized keys:
//   - name: class name
//   - field_case: "none" (default), "lower" or "snake"
//   - metrics: true enables the OpenTelemetry recorder
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	var opts []Option

	if name := cfg.String("name", ""); name != "" {
		opts = append(opts, WithName(name))
	}

	switch fc := cfg.String("field_case", "none"); fc {
	case "", "none":
	case "lower":
		opts = append(opts, WithLowerCaseFields())
	case "snake":
		opts = append(opts, WithSnakeCaseFields())
	default:
		return nil, fmt.Errorf("unknown field_case %q", fc)
	}

	if cfg.Bool("metrics", false) {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}

	return opts, nil
}

// DefineFromConfig defines a class from configuration plus any extra options.
// Extra options are applied after the configured ones.
func DefineFromConfig(cfg config.Config, extra ...Option) (*Class, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return Define(append(opts, extra...)...), nil
}
