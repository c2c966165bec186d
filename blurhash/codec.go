package blurhash

import (
	"fmt"
	"runtime"
)

// DefaultParallelThreshold is the pixel count (width*height) from which a
// transform splits its rows across workers.
const DefaultParallelThreshold = 4096

// Codec carries execution settings.  It holds no per-call state and is safe
// for concurrent use; the package-level functions use a Codec with default
// settings.
type Codec struct {
	workers   int
	threshold int
}

type Option func(*Codec) error

// WithWorkers sets how many goroutines a single large transform, or a batch,
// may use.  Zero means runtime.GOMAXPROCS(0); one forces the serial path.
func WithWorkers(n int) Option {
	return func(c *Codec) error {
		if n < 0 {
			return fmt.Errorf("workers must be >= 0, got %d", n)
		}
		if n == 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.workers = n
		return nil
	}
}

// WithParallelThreshold sets the minimum width*height for row parallelism.
func WithParallelThreshold(pixels int) Option {
	return func(c *Codec) error {
		if pixels < 0 {
			return fmt.Errorf("parallel threshold must be >= 0, got %d", pixels)
		}
		c.threshold = pixels
		return nil
	}
}

func defaultCodec() *Codec {
	return &Codec{
		workers:   runtime.GOMAXPROCS(0),
		threshold: DefaultParallelThreshold,
	}
}

// New returns a Codec configured by opts.
func New(opts ...Option) (*Codec, error) {
	c := defaultCodec()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Workers reports the configured worker count.
func (c *Codec) Workers() int { return c.workers }

var std = defaultCodec()

// Encode computes the BlurHash of an RGB buffer.  See Codec.Encode.
func Encode(pixels []byte, width, height, componentsX, componentsY int) (string, error) {
	return std.Encode(pixels, width, height, componentsX, componentsY)
}

// Decode renders hash as a width x height RGB buffer.  See Codec.Decode.
func Decode(hash string, width, height int, punch float64) ([]byte, error) {
	return std.Decode(hash, width, height, punch)
}
