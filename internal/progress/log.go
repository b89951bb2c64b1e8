package progress

import "go.uber.org/zap"

// LogObserver writes events as structured log entries.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) Observe(e Event) {
	fields := make([]zap.Field, 0, 6)
	if e.Document != "" {
		fields = append(fields, zap.String("document", e.Document))
	}
	if e.Units > 0 {
		fields = append(fields, zap.Int("units", e.Units))
	}
	if e.Total > 0 {
		fields = append(fields, zap.Int("part", e.Part), zap.Int("total", e.Total))
	}
	if e.Path != "" {
		fields = append(fields, zap.String("path", e.Path))
	}
	if e.Message != "" {
		fields = append(fields, zap.String("detail", e.Message))
	}

	switch e.Kind {
	case DocumentFailed:
		o.log.Error(string(e.Kind), append(fields, zap.Error(e.Err))...)
	case DocumentSkipped, NoInput:
		if e.Err != nil {
			fields = append(fields, zap.Error(e.Err))
		}
		o.log.Warn(string(e.Kind), fields...)
	case ChunkWritten:
		o.log.Debug(string(e.Kind), fields...)
	default:
		o.log.Info(string(e.Kind), fields...)
	}
}
