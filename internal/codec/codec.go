// Package codec compresses and decompresses the canonical object bytes
// the object store writes to disk. It uses klauspost/compress's zlib
// implementation — wire-compatible with compress/zlib (and hence with the
// classic loose-object format) but faster, which is why the teacher reaches
// for it instead of the standard library's compressor.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
)

// maxExpandedSize caps how large a decompressed object may grow to before
// Decompress gives up and reports corruption (§4.2's "hard cap").
const maxExpandedSize = 100 * 1024 * 1024

// initialBufSize is the starting capacity for the growing output buffer;
// doubled each time the decompressor signals it needs more room.
const initialBufSize = 4096

// Compress deflates in at the maximum compression level.
func Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, gnerrors.Wrap(gnerrors.IOError, "", err)
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, gnerrors.Wrap(gnerrors.IOError, "", err)
	}
	if err := w.Close(); err != nil {
		return nil, gnerrors.Wrap(gnerrors.IOError, "", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates in, growing the output buffer by doubling until the
// stream is exhausted or the hard cap is hit.
func Decompress(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, gnerrors.Wrap(gnerrors.CorruptObject, "", err)
	}
	defer r.Close()

	out := make([]byte, 0, initialBufSize)
	chunk := make([]byte, initialBufSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if len(out)+n > maxExpandedSize {
				return nil, gnerrors.New(gnerrors.CorruptObject, fmt.Sprintf("expansion exceeds %d bytes", maxExpandedSize))
			}
			out = append(out, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gnerrors.Wrap(gnerrors.CorruptObject, "", err)
		}
	}
	return out, nil
}
