package area

import "go.uber.org/zap"

// LoggingReporter forwards every diagnostic to a caller-supplied zap
// logger at Debug level, tagged with the current object. It never itself
// looks at the global logger (internal/logger) — the CLI layer decides
// which logger an assembly run uses, keeping this package free of global
// logging state.
type LoggingReporter struct {
	log        *zap.Logger
	objectKind ObjectKind
	objectID   int64
}

// NewLoggingReporter wraps log for use as a ProblemReporter.
func NewLoggingReporter(log *zap.Logger) *LoggingReporter {
	return &LoggingReporter{log: log}
}

func (l *LoggingReporter) SetObject(kind ObjectKind, id int64) {
	l.objectKind = kind
	l.objectID = id
}

func (l *LoggingReporter) fields(extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("object_kind", l.objectKind.String()),
		zap.Int64("object_id", l.objectID),
	}, extra...)
}

func (l *LoggingReporter) ReportDuplicateNode(id1, id2 int64, loc Location) {
	l.log.Debug("duplicate node", l.fields(zap.Int64("id1", id1), zap.Int64("id2", id2), zap.Any("location", loc))...)
}

func (l *LoggingReporter) ReportRingNotClosed(start, end Location) {
	l.log.Debug("ring not closed", l.fields(zap.Any("start", start), zap.Any("end", end))...)
}

func (l *LoggingReporter) ReportSegmentIntersection(seg1a, seg1b, seg2a, seg2b, intersection Location) {
	l.log.Debug("segment intersection",
		l.fields(
			zap.Any("seg1a", seg1a), zap.Any("seg1b", seg1b),
			zap.Any("seg2a", seg2a), zap.Any("seg2b", seg2b),
			zap.Any("intersection", intersection),
		)...)
}

func (l *LoggingReporter) ReportRoleShouldBeOuter(wayID int64, a, b Location) {
	l.log.Debug("role should be outer", l.fields(zap.Int64("way_id", wayID), zap.Any("a", a), zap.Any("b", b))...)
}

func (l *LoggingReporter) ReportRoleShouldBeInner(wayID int64, a, b Location) {
	l.log.Debug("role should be inner", l.fields(zap.Int64("way_id", wayID), zap.Any("a", a), zap.Any("b", b))...)
}

func (l *LoggingReporter) ReportOrphanInnerRing(minNode Location) {
	l.log.Debug("inner ring has no enclosing outer", l.fields(zap.Any("min_node", minNode))...)
}
