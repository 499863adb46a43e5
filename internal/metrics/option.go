package metrics

import "github.com/prometheus/client_golang/prometheus"

// Exporter kinds a provider can feed.
type Exporter string

const (
	PrometheusExporter Exporter = "prometheus"
	OtelCollector      Exporter = "otlp"
)

// Config is built by the OptionFns.
type Config struct {
	ServiceName string
	Exporters   []ExporterCfg
}

// ExporterCfg configures one metric reader.
type ExporterCfg struct {
	Exporter Exporter
	Registry *prometheus.Registry // prometheus only
	Endpoint string               // otlp only
	Headers  map[string]string
	Insecure bool
}

type OptionFn func(config Config) Config

// WithPrometheus exposes metrics through reg.
func WithPrometheus(reg *prometheus.Registry) OptionFn {
	return func(config Config) Config {
		config.Exporters = append(config.Exporters, ExporterCfg{Exporter: PrometheusExporter, Registry: reg})
		return config
	}
}

// WithOtelCollector pushes metrics to an OTLP gRPC collector.
func WithOtelCollector(url string, headers map[string]string, insecure bool) OptionFn {
	return func(config Config) Config {
		config.Exporters = append(config.Exporters, ExporterCfg{
			Exporter: OtelCollector,
			Endpoint: url,
			Headers:  headers,
			Insecure: insecure,
		})
		return config
	}
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}
