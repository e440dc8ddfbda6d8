package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every clide span comes from.
const TracerName = "github.com/willibrandon/goclide"

// Span attribute keys.
const (
	AttrTemplate     = attribute.Key("clide.template")
	AttrSourceDir    = attribute.Key("clide.source_dir")
	AttrOutputDir    = attribute.Key("clide.output_dir")
	AttrDocumentPath = attribute.Key("clide.document.path")
	AttrDocumentKind = attribute.Key("clide.document.kind")
	AttrCommand      = attribute.Key("clide.command")
	AttrFileCount    = attribute.Key("clide.file_count")
)

// StartCommandSpan starts the root span of a CLI command.
func StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "command."+command,
		trace.WithAttributes(AttrCommand.String(command)),
	)
}

// StartGenerateSpan starts a span around processing a template directory.
func StartGenerateSpan(ctx context.Context, template, sourceDir, outputDir string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "template.generate",
		trace.WithAttributes(
			AttrTemplate.String(template),
			AttrSourceDir.String(sourceDir),
			AttrOutputDir.String(outputDir),
		),
	)
}

// StartDocumentLoadSpan starts a span around reading a project or solution.
func StartDocumentLoadSpan(ctx context.Context, kind, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, kind+".load",
		trace.WithAttributes(
			AttrDocumentKind.String(kind),
			AttrDocumentPath.String(path),
		),
	)
}

// StartDocumentSaveSpan starts a span around writing a project or solution.
func StartDocumentSaveSpan(ctx context.Context, kind, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, kind+".save",
		trace.WithAttributes(
			AttrDocumentKind.String(kind),
			AttrDocumentPath.String(path),
		),
	)
}

// EndSpanWithError sets the span status from err and ends it.
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
