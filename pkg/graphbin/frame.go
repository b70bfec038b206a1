package graphbin

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// DefaultMaxFrameSize bounds the payload of a single frame accepted by a
// Decoder. A Batch record for a node with ten million out-edges is well
// under this limit.
const DefaultMaxFrameSize = 64 << 20

var (
	// ErrTruncatedFrame indicates the stream ended inside a frame, e.g. after
	// the writer was killed mid-record.
	ErrTruncatedFrame = errors.New("truncated frame")

	// ErrFrameTooLarge indicates a length prefix above the decoder's limit,
	// which almost always means the stream is not a graph file.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// frameWriter writes length-prefixed frames: uvarint(len(payload)) || payload.
type frameWriter struct {
	w      *bufio.Writer
	prefix []byte
}

func newFrameWriter(w io.Writer) *frameWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &frameWriter{w: bw, prefix: make([]byte, 0, binary.MaxVarintLen64)}
}

func (fw *frameWriter) writeFrame(payload []byte) error {
	fw.prefix = protowire.AppendVarint(fw.prefix[:0], uint64(len(payload)))
	if _, err := fw.w.Write(fw.prefix); err != nil {
		return err
	}
	_, err := fw.w.Write(payload)
	return err
}

func (fw *frameWriter) flush() error {
	return fw.w.Flush()
}

// frameReader reads frames written by frameWriter. The returned payload is
// only valid until the next call.
type frameReader struct {
	r   *bufio.Reader
	buf []byte
	max int
}

func newFrameReader(r io.Reader) *frameReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &frameReader{r: br, max: DefaultMaxFrameSize}
}

// readFrame returns io.EOF at a clean frame boundary and ErrTruncatedFrame
// when the stream ends part way through a frame.
func (fr *frameReader) readFrame() ([]byte, error) {
	length, err := fr.readLength()
	if err != nil {
		return nil, err
	}
	if length > uint64(fr.max) {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, length, fr.max)
	}

	if uint64(cap(fr.buf)) < length {
		fr.buf = make([]byte, length)
	}
	fr.buf = fr.buf[:length]
	if _, err := io.ReadFull(fr.r, fr.buf); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedFrame
		}
		return nil, err
	}
	return fr.buf, nil
}

// readLength reads the uvarint length prefix of the next frame.
func (fr *frameReader) readLength() (uint64, error) {
	var prefix [binary.MaxVarintLen64]byte
	for i := range prefix {
		c, err := fr.r.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return 0, ErrTruncatedFrame
			}
			return 0, err
		}
		prefix[i] = c
		if c < 0x80 {
			v, n := protowire.ConsumeVarint(prefix[:i+1])
			if n < 0 {
				return 0, fmt.Errorf("%w: %v", ErrFrameTooLarge, protowire.ParseError(n))
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: length prefix longer than %d bytes", ErrFrameTooLarge, binary.MaxVarintLen64)
}
