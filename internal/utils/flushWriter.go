package utils

import "net/http"

// FlushWriter pushes every chunk to the client right away. Once a write fails the
// remaining chunks are dropped and Err reports the first failure.
type FlushWriter struct {
	w   http.ResponseWriter
	err error
}

func (fw *FlushWriter) Write(p []byte) (int, error) {
	if fw.err != nil {
		return 0, fw.err
	}
	n, err := fw.w.Write(p)
	fw.err = err
	return n, err
}

func (fw *FlushWriter) Flush() {
	if fw.err != nil {
		return
	}
	if flusher, ok := fw.w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (fw *FlushWriter) Err() error {
	return fw.err
}

func NewFlushWriter(w http.ResponseWriter) *FlushWriter {
	return &FlushWriter{w: w}
}
