package blurhash

import (
	"context"
	"sync"
)

// EncodeRequest is one Encode call.  Fields are passed to Encode as they are;
// NewEncodeRequest fills in the default component counts.
type EncodeRequest struct {
	Pixels        []byte
	Width, Height int
	ComponentsX   int
	ComponentsY   int
}

type EncodeResult struct {
	Hash string
	Err  error
}

// DecodeRequest is one Decode call.  A zero Punch is a real punch of 0;
// NewDecodeRequest starts from DefaultPunch.
type DecodeRequest struct {
	Hash          string
	Width, Height int
	Punch         float64
}

type DecodeResult struct {
	Pixels []byte
	Err    error
}

// NewEncodeRequest returns a request using DefaultComponentsX by
// DefaultComponentsY components.
func NewEncodeRequest(pixels []byte, width, height int) EncodeRequest {
	return EncodeRequest{
		Pixels:      pixels,
		Width:       width,
		Height:      height,
		ComponentsX: DefaultComponentsX,
		ComponentsY: DefaultComponentsY,
	}
}

// NewDecodeRequest returns a request using DefaultPunch.
func NewDecodeRequest(hash string, width, height int) DecodeRequest {
	return DecodeRequest{Hash: hash, Width: width, Height: height, Punch: DefaultPunch}
}

// EncodeBatch encodes every request with the default Codec.
func EncodeBatch(ctx context.Context, reqs []EncodeRequest) []EncodeResult {
	return std.EncodeBatch(ctx, reqs)
}

// DecodeBatch decodes every request with the default Codec.
func DecodeBatch(ctx context.Context, reqs []DecodeRequest) []DecodeResult {
	return std.DecodeBatch(ctx, reqs)
}

// EncodeBatch encodes every request concurrently.  Results keep the order of
// reqs.  A failed item gets an *ItemError carrying its index and leaves its
// siblings untouched; items not yet started when ctx is done fail with
// ctx.Err().
func (c *Codec) EncodeBatch(ctx context.Context, reqs []EncodeRequest) []EncodeResult {
	results := make([]EncodeResult, len(reqs))
	errs := c.each(ctx, len(reqs), func(i int) error {
		r := reqs[i]
		h, err := c.Encode(r.Pixels, r.Width, r.Height, r.ComponentsX, r.ComponentsY)
		results[i].Hash = h
		return err
	})
	for i, err := range errs {
		results[i].Err = err
	}
	return results
}

// DecodeBatch is the decoding counterpart of EncodeBatch.
func (c *Codec) DecodeBatch(ctx context.Context, reqs []DecodeRequest) []DecodeResult {
	results := make([]DecodeResult, len(reqs))
	errs := c.each(ctx, len(reqs), func(i int) error {
		r := reqs[i]
		px, err := c.Decode(r.Hash, r.Width, r.Height, r.Punch)
		results[i].Pixels = px
		return err
	})
	for i, err := range errs {
		results[i].Err = err
	}
	return results
}

// each runs fn(0..n-1) on at most c.workers goroutines and returns the
// per-index errors, nil for items that succeeded.
func (c *Codec) each(ctx context.Context, n int, fn func(i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(c.workers, 1))

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs[i] = &ItemError{Index: i, Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			errs[i] = &ItemError{Index: i, Err: ctx.Err()}
			continue
		case sem <- struct{}{}: // acquire
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release
			if err := fn(i); err != nil {
				errs[i] = &ItemError{Index: i, Err: err}
			}
		}()
	}
	wg.Wait()
	return errs
}

// EncodeAsync runs one encode on its own goroutine.  The channel receives
// exactly one result and is then closed.
func (c *Codec) EncodeAsync(ctx context.Context, req EncodeRequest) <-chan EncodeResult {
	ch := make(chan EncodeResult, 1)
	go func() {
		defer close(ch)
		if err := ctx.Err(); err != nil {
			ch <- EncodeResult{Err: err}
			return
		}
		h, err := c.Encode(req.Pixels, req.Width, req.Height, req.ComponentsX, req.ComponentsY)
		ch <- EncodeResult{Hash: h, Err: err}
	}()
	return ch
}

// DecodeAsync runs one decode on its own goroutine.  The channel receives
// exactly one result and is then closed.
func (c *Codec) DecodeAsync(ctx context.Context, req DecodeRequest) <-chan DecodeResult {
	ch := make(chan DecodeResult, 1)
	go func() {
		defer close(ch)
		if err := ctx.Err(); err != nil {
			ch <- DecodeResult{Err: err}
			return
		}
		px, err := c.Decode(req.Hash, req.Width, req.Height, req.Punch)
		ch <- DecodeResult{Pixels: px, Err: err}
	}()
	return ch
}
