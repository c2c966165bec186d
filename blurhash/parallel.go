package blurhash

import "sync"

// rows calls fn over [0, height) in contiguous, disjoint chunks.  Small images
// run fn once on the calling goroutine; larger ones fan the chunks out and
// return only after every chunk has finished, so callers may read anything fn
// wrote as soon as rows returns.
func (c *Codec) rows(width, height int, fn func(y0, y1 int)) {
	workers := min(c.workers, height)
	if workers < 2 || width*height < c.threshold {
		fn(0, height)
		return
	}

	chunk := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += chunk {
		y1 := min(y0+chunk, height)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(y0, y1)
		}()
	}
	wg.Wait()
}
