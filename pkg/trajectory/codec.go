package trajectory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
)

// ErrMalformed is returned for wire records that cannot be decoded.
var ErrMalformed = errors.New("malformed trajectory record")

// maxLineSize bounds a single wire record. Records carry no waypoints, so real lines are
// tiny; this only guards against garbage input.
const maxLineSize = 1 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Writer writes one JSON object per line.
type Writer struct {
	buf *bufio.Writer
	enc *zstd.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// NewCompressedWriter writes the same stream through a zstd encoder.
func NewCompressedWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}

	return &Writer{buf: bufio.NewWriter(enc), enc: enc}, nil
}

func (w *Writer) Write(t Trajectory) error {
	b, err := sonic.Marshal(&t)
	if err != nil {
		return fmt.Errorf("encoding trajectory: %w", err)
	}

	if _, err = w.buf.Write(b); err != nil {
		return err
	}

	return w.buf.WriteByte('\n')
}

// Close flushes buffered records. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}

	if w.enc != nil {
		return w.enc.Close()
	}

	return nil
}

// Reader reads records written by Writer. zstd-compressed input is detected and
// decompressed transparently.
type Reader struct {
	scanner *bufio.Scanner
	dec     *zstd.Decoder
	line    int
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	var dec *zstd.Decoder

	magic, err := br.Peek(len(zstdMagic))
	if err == nil && bytes.Equal(magic, zstdMagic) {
		dec, err = zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		src = dec
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	return &Reader{scanner: scanner, dec: dec}, nil
}

// Read returns the next record, or io.EOF once the input is exhausted. Blank lines are
// skipped.
func (r *Reader) Read() (Trajectory, error) {
	for r.scanner.Scan() {
		r.line++

		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var t Trajectory
		if err := sonic.Unmarshal(line, &t); err != nil {
			return Trajectory{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, r.line, err)
		}
		if t.Length < 0 {
			return Trajectory{}, fmt.Errorf("%w: line %d: negative length %d", ErrMalformed, r.line, t.Length)
		}

		return t, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Trajectory{}, fmt.Errorf("reading trajectories: %w", err)
	}

	return Trajectory{}, io.EOF
}

func (r *Reader) Close() {
	if r.dec != nil {
		r.dec.Close()
	}
}

// ReadAll decodes every record in r.
func ReadAll(r io.Reader) ([]Trajectory, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var result []Trajectory
	for {
		t, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result = append(result, t)
	}
}
