package jaeger

import (
	"io"

	"VidTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitJaeger registers a jaeger tracer as the global opentracing tracer. The
// gorm opentracing plugin reports spans through it.
func InitJaeger(service string) (opentracing.Tracer, io.Closer) {
	cfg := &jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: config.ConfigInfo.Jaeger.SampleRate,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: config.ConfigInfo.Jaeger.Agent,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		hlog.Errorf("cannot init jaeger: %v", err)
		return opentracing.NoopTracer{}, io.NopCloser(nil)
	}
	opentracing.SetGlobalTracer(tracer)
	return tracer, closer
}
