package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to every writer even when some of them fail,
// so a broken log file does not silence stdout (unlike io.MultiWriter).
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports the smallest count written by any writer, with all write errors combined
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			n = min(n, written)
		}
	}
	return n, err
}
