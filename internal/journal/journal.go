// Package journal keeps a local append-only record of predictions
// submitted to the oracle contract.
package journal

import (
	"io"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the journal file inside the log directory.
const FileName = "predictions.log"

// Entry describes a submitted prediction.
type Entry struct {
	RunID        string
	PredictionID uint64
	Statement    string
	Confidence   int
	Hours        int
	Tx           string
	Authority    string
}

// Journal writes entries as JSON lines.
type Journal struct {
	log *zap.Logger
	out io.Closer
}

// Open opens the journal in dir. The file is rotated once it grows over
// maxSizeMB megabytes.
func Open(dir string, maxSizeMB int) *Journal {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    maxSizeMB,
		MaxBackups: 10,
	}
	return New(zapcore.AddSync(w), w)
}

// New creates a journal writing into w. Closer, if set, is closed by Close.
func New(w zapcore.WriteSyncer, closer io.Closer) *Journal {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	return &Journal{
		log: zap.New(zapcore.NewCore(enc, w, zap.InfoLevel)),
		out: closer,
	}
}

// Record appends the entry to the journal.
func (j *Journal) Record(e Entry) error {
	j.log.Info("prediction",
		zap.String("run_id", e.RunID),
		zap.Uint64("prediction_id", e.PredictionID),
		zap.String("statement", e.Statement),
		zap.Int("confidence", e.Confidence),
		zap.Int("hours", e.Hours),
		zap.String("tx", e.Tx),
		zap.String("authority", e.Authority),
	)
	return j.log.Sync()
}

// Close flushes and closes the journal.
func (j *Journal) Close() error {
	_ = j.log.Sync()
	if j.out != nil {
		return j.out.Close()
	}
	return nil
}
