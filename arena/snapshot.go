package arena

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec for arena snapshots.
type Compression uint8

const (
	// CompressionNone stores the used region as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 frames (fast, good for frequent snapshots).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd (better ratio, good for crash dumps).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Snapshot header layout (little endian):
//
//	[0:4]   magic "FMAR"
//	[4]     version
//	[5]     compression
//	[6:8]   reserved
//	[8:16]  used bytes
//	[16:20] CRC32 (IEEE) of the uncompressed payload
const (
	snapshotVersion    = 1
	snapshotHeaderSize = 20
	snapshotBlockSize  = 64 << 10
)

var snapshotMagic = [4]byte{'F', 'M', 'A', 'R'}

// WriteSnapshot writes the used region [0, Pos()) to w and returns the number
// of bytes written, header included.
func (a *Arena) WriteSnapshot(ctx context.Context, w io.Writer, c Compression) (int64, error) {
	if a.released {
		return 0, ErrReleased
	}

	payload := a.buf[:a.pos]

	var hdr [snapshotHeaderSize]byte
	copy(hdr[0:4], snapshotMagic[:])
	hdr[4] = snapshotVersion
	hdr[5] = byte(c)
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(len(payload)))
	binary.LittleEndian.PutUint32(hdr[16:20], crc32.ChecksumIEEE(payload))

	cw := &countingWriter{w: &pacedWriter{ctx: ctx, w: w, io: a.io}}
	if _, err := cw.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	body, err := newCompressor(cw, c)
	if err != nil {
		return cw.n, err
	}

	for off := 0; off < len(payload); off += snapshotBlockSize {
		if err := ctx.Err(); err != nil {
			_ = body.Close()
			return cw.n, err
		}
		end := min(off+snapshotBlockSize, len(payload))
		if _, err := body.Write(payload[off:end]); err != nil {
			_ = body.Close()
			return cw.n, err
		}
	}

	if err := body.Close(); err != nil {
		return cw.n, err
	}

	a.logger.Debug("arena snapshot written",
		"used", len(payload),
		"written", cw.n,
		"compression", c.String(),
	)

	return cw.n, nil
}

// RestoreSnapshot replaces the arena contents with a snapshot written by
// WriteSnapshot. Every existing allocation becomes invalid. A snapshot larger
// than the capacity, or one whose pages the commit budget denies, is rejected
// with ErrCapacityExceeded and leaves the arena empty.
func (a *Arena) RestoreSnapshot(ctx context.Context, r io.Reader) error {
	if a.released {
		return ErrReleased
	}

	var hdr [snapshotHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidSnapshot, err)
	}
	if [4]byte(hdr[0:4]) != snapshotMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	if hdr[4] != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, hdr[4])
	}

	c := Compression(hdr[5])
	used := binary.LittleEndian.Uint64(hdr[8:16])
	sum := binary.LittleEndian.Uint32(hdr[16:20])

	if used > uint64(a.capacity) {
		return fmt.Errorf("%w: snapshot holds %d bytes, capacity is %d", ErrCapacityExceeded, used, a.capacity)
	}

	body, err := newDecompressor(r, c)
	if err != nil {
		return err
	}
	defer body.Close()

	a.rewind(0)
	n := int(used)
	if n == 0 {
		return nil
	}
	if n > a.committed {
		if err := a.tryCommit(n); err != nil {
			return fmt.Errorf("%w: restore %d bytes: %w", ErrCapacityExceeded, n, err)
		}
	}
	a.extend(0, n, n, 1)

	dst := a.buf[:n]
	for off := 0; off < n; off += snapshotBlockSize {
		if err := ctx.Err(); err != nil {
			a.rewind(0)
			return err
		}
		end := min(off+snapshotBlockSize, n)
		if _, err := io.ReadFull(body, dst[off:end]); err != nil {
			a.rewind(0)
			return fmt.Errorf("%w: payload: %w", ErrInvalidSnapshot, err)
		}
	}

	if crc32.ChecksumIEEE(dst) != sum {
		a.rewind(0)
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidSnapshot)
	}

	a.logger.Debug("arena snapshot restored", "used", n, "compression", c.String())

	return nil
}

func newCompressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("arena: unknown compression %d", uint8(c))
	}
}

func newDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{dec}, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, uint8(c))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type zstdReadCloser struct{ *zstd.Decoder }

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// pacedWriter waits for the IO limiter before every write.
type pacedWriter struct {
	ctx context.Context
	w   io.Writer
	io  IOLimiter
}

func (p *pacedWriter) Write(b []byte) (int, error) {
	if p.io != nil {
		if err := p.io.WaitIO(p.ctx, len(b)); err != nil {
			return 0, err
		}
	}
	n, err := p.w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return n, err
}

