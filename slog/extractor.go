package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/techdoc"
)

// Ensure LoggingExtractor implements techdoc.Extractor.
var _ techdoc.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging of the detected
// documentation framework.
type LoggingExtractor struct {
	next     techdoc.Extractor
	detector techdoc.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next techdoc.Extractor, detector techdoc.FrameworkDetector, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, detector: detector, logger: logger}
}

// Extract detects the framework, logs it, and delegates extraction.
func (e *LoggingExtractor) Extract(html string) (result *techdoc.ExtractResult, err error) {
	framework := e.detector.Detect(html)
	if framework == techdoc.FrameworkUnknown {
		framework = "unknown"
	}
	defer func(begin time.Time) {
		size := 0
		if result != nil {
			size = len(result.ContentHTML)
		}
		e.logger.Debug("extract",
			"framework", framework,
			"bytes", len(html),
			"content_bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
