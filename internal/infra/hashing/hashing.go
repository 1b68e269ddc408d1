// Package hashing computes file digests for hash naming segments and the
// hash command.
package hashing

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"renamer/internal/domain/model"
)

const (
	// CRC32Polynomial is the reversed IEEE polynomial.
	CRC32Polynomial uint32 = 0xEDB88320

	defaultBufferSize = 64 * 1024
)

type Digest struct {
	Kind model.HashKind `json:"kind"`
	Sum  []byte         `json:"-"`
}

func (d Digest) Hex() string {
	return strings.ToUpper(hex.EncodeToString(d.Sum))
}

func (d Digest) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Sum)
}

// Computer streams files through digest functions. The zero value is not
// usable; use NewComputer.
type Computer struct {
	crc        *crcTables
	bufferSize int
}

func NewComputer() *Computer {
	return &Computer{crc: newCRCTables(), bufferSize: defaultBufferSize}
}

var defaultComputer = sync.OnceValue(NewComputer)

// Compute hashes path with the shared default Computer.
func Compute(ctx context.Context, path string, kind model.HashKind) (Digest, error) {
	return defaultComputer().Compute(ctx, path, kind)
}

// ComputeMany hashes path with the shared default Computer.
func ComputeMany(ctx context.Context, path string, kinds []model.HashKind) ([]Digest, error) {
	return defaultComputer().ComputeMany(ctx, path, kinds)
}

func (c *Computer) New(kind model.HashKind) (hash.Hash, error) {
	switch kind {
	case model.HashMD5:
		return md5.New(), nil
	case model.HashSHA1:
		return sha1.New(), nil
	case model.HashSHA256:
		return sha256.New(), nil
	case model.HashSHA384:
		return sha512.New384(), nil
	case model.HashSHA512:
		return sha512.New(), nil
	case model.HashCRC32:
		return crc32.New(c.crc.get(CRC32Polynomial)), nil
	default:
		return nil, fmt.Errorf("unsupported hash kind %q", kind)
	}
}

// Compute reads the whole file through the selected digest. The file handle
// is closed before returning on every path.
func (c *Computer) Compute(ctx context.Context, path string, kind model.HashKind) (Digest, error) {
	h, err := c.New(kind)
	if err != nil {
		return Digest{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()

	buf := make([]byte, c.bufferSize)
	if _, err := io.CopyBuffer(h, &ctxReader{ctx: ctx, r: f}, buf); err != nil {
		return Digest{}, err
	}
	return Digest{Kind: kind, Sum: h.Sum(nil)}, nil
}

// ComputeMany runs one task per kind, each with its own file handle. The
// first failure cancels the remaining tasks. Results keep the order of kinds.
func (c *Computer) ComputeMany(ctx context.Context, path string, kinds []model.HashKind) ([]Digest, error) {
	out := make([]Digest, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			d, err := c.Compute(gctx, path, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func ParseKind(s string) (model.HashKind, error) {
	k := model.HashKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "sha-1":
		k = model.HashSHA1
	case "sha-256":
		k = model.HashSHA256
	case "sha-384":
		k = model.HashSHA384
	case "sha-512":
		k = model.HashSHA512
	case "crc-32":
		k = model.HashCRC32
	}
	for _, known := range model.HashKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported hash kind %q", s)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// crcTables memoizes lookup tables per polynomial. Reads vastly outnumber
// writes.
type crcTables struct {
	mu     sync.RWMutex
	tables map[uint32]*crc32.Table
}

func newCRCTables() *crcTables {
	return &crcTables{tables: make(map[uint32]*crc32.Table)}
}

func (t *crcTables) get(poly uint32) *crc32.Table {
	t.mu.RLock()
	tab, ok := t.tables[poly]
	t.mu.RUnlock()
	if ok {
		return tab
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if tab, ok := t.tables[poly]; ok {
		return tab
	}
	tab = crc32.MakeTable(poly)
	t.tables[poly] = tab
	return tab
}
