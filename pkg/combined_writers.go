package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a write out to all of its writers. A failing writer
// does not stop the others, its error is combined into the returned one
// and kept in Err.
type CombinedWriter struct {
	Writers []io.Writer
	Err     error
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports len(p) when every writer took all of p. Otherwise it reports the
// shortest write and the combined error.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	n := len(p)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
		}
		if written < n {
			n = written
		}
	}
	if err != nil {
		cw.Err = multierr.Append(cw.Err, err)
		return n, err
	}
	return len(p), nil
}
