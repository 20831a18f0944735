package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig controls the gzip middleware.
type CompressionConfig struct {
	// MinSize is the smallest body worth compressing, in bytes.
	MinSize int
	// CompressibleTypes lists the media types eligible for compression.
	CompressibleTypes []string
}

// DefaultCompressionConfig compresses the textual surface of the API.
// JPEG artifacts are deliberately absent from the type list; recompressing
// them wastes CPU for no size win.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		CompressibleTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/json",
			"application/javascript",
			"image/svg+xml",
		},
	}
}

var gzipPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// compressWriter delays the header write until enough body has arrived
// to know whether compression pays off. Once MinSize bytes are pending
// (or the response ends first) it commits one way and streams the rest.
type compressWriter struct {
	http.ResponseWriter
	config CompressionConfig

	pending     []byte
	status      int
	committed   bool
	compressing bool
	gz          *gzip.Writer
}

func newCompressWriter(w http.ResponseWriter, config CompressionConfig) *compressWriter {
	return &compressWriter{
		ResponseWriter: w,
		config:         config,
		status:         http.StatusOK,
		pending:        make([]byte, 0, config.MinSize+1),
	}
}

// WriteHeader records the status for the eventual commit. Nothing goes
// to the wire yet, since Content-Encoding is still undecided.
func (cw *compressWriter) WriteHeader(status int) {
	if !cw.committed {
		cw.status = status
	}
}

func (cw *compressWriter) Write(data []byte) (int, error) {
	if cw.committed {
		if cw.compressing {
			return cw.gz.Write(data)
		}
		return cw.ResponseWriter.Write(data)
	}

	cw.pending = append(cw.pending, data...)
	if len(cw.pending) > cw.config.MinSize {
		cw.commit()
	}
	return len(data), nil
}

// eligible reports whether the response media type is in the allowlist.
// Parameters like charset are ignored.
func (cw *compressWriter) eligible() bool {
	contentType := cw.Header().Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, candidate := range cw.config.CompressibleTypes {
		if mediaType == candidate {
			return true
		}
	}
	return false
}

// commit settles the compression decision, writes the header, and
// flushes the pending bytes through the chosen path.
func (cw *compressWriter) commit() {
	if cw.committed {
		return
	}
	cw.committed = true
	cw.compressing = len(cw.pending) >= cw.config.MinSize && cw.eligible()

	if cw.compressing {
		// The original Content-Length describes the uncompressed body
		cw.Header().Del("Content-Length")
		cw.Header().Set("Content-Encoding", "gzip")
		cw.Header().Add("Vary", "Accept-Encoding")

		cw.gz = gzipPool.Get().(*gzip.Writer)
		cw.gz.Reset(cw.ResponseWriter)
		cw.ResponseWriter.WriteHeader(cw.status)
		cw.gz.Write(cw.pending)
	} else {
		cw.ResponseWriter.WriteHeader(cw.status)
		cw.ResponseWriter.Write(cw.pending)
	}
	cw.pending = nil
}

// Close commits a still-buffered response and recycles the gzip writer.
func (cw *compressWriter) Close() error {
	cw.commit()
	if cw.gz == nil {
		return nil
	}
	err := cw.gz.Close()
	gzipPool.Put(cw.gz)
	cw.gz = nil
	return err
}

// Flush implements http.Flusher.
func (cw *compressWriter) Flush() {
	cw.commit()
	if cw.gz != nil {
		cw.gz.Flush()
	}
	if flusher, ok := cw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Compression gzips eligible responses for clients that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}
			// Websocket upgrades need the raw connection
			if r.Header.Get("Upgrade") != "" {
				next.ServeHTTP(w, r)
				return
			}

			cw := newCompressWriter(w, config)
			defer cw.Close()
			next.ServeHTTP(cw, r)
		})
	}
}
