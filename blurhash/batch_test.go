package blurhash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBatch_IsolatesFailures(t *testing.T) {
	good := gradientRGB(16, 12)
	reqs := []EncodeRequest{
		{Pixels: good, Width: 16, Height: 12, ComponentsX: 4, ComponentsY: 3},
		{Pixels: good, Width: 16, Height: 12, ComponentsX: 12, ComponentsY: 3},
		{Pixels: good[:9], Width: 16, Height: 12, ComponentsX: 4, ComponentsY: 3},
		{Pixels: solidRGB(4, 4, 128, 128, 128), Width: 4, Height: 4, ComponentsX: 1, ComponentsY: 1},
	}
	res := EncodeBatch(context.Background(), reqs)
	require.Len(t, res, len(reqs))

	require.NoError(t, res[0].Err)
	assert.Equal(t, "L$Hx+i2?wxoyqSR-jte=g0fjfQfj", res[0].Hash)

	var ie *ItemError
	require.ErrorAs(t, res[1].Err, &ie)
	assert.Equal(t, 1, ie.Index)
	assert.ErrorIs(t, res[1].Err, ErrInvalidComponentCount)
	assert.Empty(t, res[1].Hash)

	require.ErrorAs(t, res[2].Err, &ie)
	assert.Equal(t, 2, ie.Index)
	assert.ErrorIs(t, res[2].Err, ErrBufferLength)

	require.NoError(t, res[3].Err)
	assert.Equal(t, "00Eyb[", res[3].Hash)
}

func TestEncodeBatch_ZeroComponentsRejected(t *testing.T) {
	px := patternRGB(8, 8)
	res := EncodeBatch(context.Background(), []EncodeRequest{
		NewEncodeRequest(px, 8, 8),
		{Pixels: px, Width: 8, Height: 8},
		{Pixels: px, Width: 8, Height: 8, ComponentsX: 4},
	})
	require.Len(t, res, 3)
	require.NoError(t, res[0].Err)

	for i := 1; i < len(res); i++ {
		var ie *ItemError
		require.ErrorAs(t, res[i].Err, &ie)
		assert.Equal(t, i, ie.Index)
		assert.ErrorIs(t, res[i].Err, ErrInvalidComponentCount)
		assert.Empty(t, res[i].Hash)
	}
}

func TestNewRequests_Defaults(t *testing.T) {
	px := patternRGB(8, 8)
	er := NewEncodeRequest(px, 8, 8)
	assert.Equal(t, EncodeRequest{Pixels: px, Width: 8, Height: 8,
		ComponentsX: DefaultComponentsX, ComponentsY: DefaultComponentsY}, er)

	res := EncodeBatch(context.Background(), []EncodeRequest{er})
	require.NoError(t, res[0].Err)
	cx, cy, err := Components(res[0].Hash)
	require.NoError(t, err)
	assert.Equal(t, DefaultComponentsX, cx)
	assert.Equal(t, DefaultComponentsY, cy)

	dr := NewDecodeRequest(knownHash, 8, 6)
	assert.Equal(t, DecodeRequest{Hash: knownHash, Width: 8, Height: 6, Punch: DefaultPunch}, dr)
}

func TestEncodeBatch_MatchesSingleCalls(t *testing.T) {
	c, err := New(WithWorkers(3))
	require.NoError(t, err)

	var reqs []EncodeRequest
	for i := 1; i <= 12; i++ {
		reqs = append(reqs, EncodeRequest{
			Pixels: patternRGB(i*3, i*2), Width: i * 3, Height: i * 2,
			ComponentsX: i%9 + 1, ComponentsY: (i*5)%9 + 1,
		})
	}
	res := c.EncodeBatch(context.Background(), reqs)
	for i, r := range reqs {
		want, err := c.Encode(r.Pixels, r.Width, r.Height, r.ComponentsX, r.ComponentsY)
		require.NoError(t, err)
		require.NoError(t, res[i].Err)
		assert.Equal(t, want, res[i].Hash, "item %d", i)
	}
}

func TestDecodeBatch(t *testing.T) {
	res := DecodeBatch(context.Background(), []DecodeRequest{
		NewDecodeRequest(knownHash, 8, 6),
		{Hash: "bogus", Width: 8, Height: 6, Punch: 1},
		{Hash: knownHash, Width: 0, Height: 6, Punch: 1},
	})
	require.Len(t, res, 3)

	require.NoError(t, res[0].Err)
	want, err := Decode(knownHash, 8, 6, DefaultPunch)
	require.NoError(t, err)
	assert.Equal(t, want, res[0].Pixels)

	assert.ErrorIs(t, res[1].Err, ErrInvalidLength)
	assert.Nil(t, res[1].Pixels)
	assert.ErrorIs(t, res[2].Err, ErrInvalidDimensions)
}

func TestDecodeBatch_PunchPassedThrough(t *testing.T) {
	res := DecodeBatch(context.Background(), []DecodeRequest{
		{Hash: knownHash, Width: 8, Height: 6},
		{Hash: knownHash, Width: 8, Height: 6, Punch: 2.5},
	})
	require.Len(t, res, 2)

	for i, punch := range []float64{0, 2.5} {
		require.NoError(t, res[i].Err)
		want, err := Decode(knownHash, 8, 6, punch)
		require.NoError(t, err)
		assert.Equal(t, want, res[i].Pixels, "punch %v", punch)
	}

	normal, err := Decode(knownHash, 8, 6, DefaultPunch)
	require.NoError(t, err)
	assert.NotEqual(t, normal, res[0].Pixels, "zero punch must not fall back to the default")

	d := <-std.DecodeAsync(context.Background(), DecodeRequest{Hash: knownHash, Width: 8, Height: 6})
	require.NoError(t, d.Err)
	assert.Equal(t, res[0].Pixels, d.Pixels)
}

func TestBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := EncodeBatch(ctx, []EncodeRequest{
		{Pixels: solidRGB(2, 2, 1, 2, 3), Width: 2, Height: 2},
		{Pixels: solidRGB(2, 2, 1, 2, 3), Width: 2, Height: 2},
	})
	for i, r := range res {
		var ie *ItemError
		require.ErrorAs(t, r.Err, &ie)
		assert.Equal(t, i, ie.Index)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}

	dres := DecodeBatch(ctx, []DecodeRequest{{Hash: knownHash, Width: 4, Height: 4}})
	assert.ErrorIs(t, dres[0].Err, context.Canceled)
}

func TestBatch_Empty(t *testing.T) {
	assert.Empty(t, EncodeBatch(context.Background(), nil))
	assert.Empty(t, DecodeBatch(context.Background(), nil))
}

func TestAsync(t *testing.T) {
	ctx := context.Background()

	ch := std.EncodeAsync(ctx, EncodeRequest{
		Pixels: gradientRGB(16, 12), Width: 16, Height: 12, ComponentsX: 4, ComponentsY: 3,
	})
	r, ok := <-ch
	require.True(t, ok)
	require.NoError(t, r.Err)
	assert.Equal(t, "L$Hx+i2?wxoyqSR-jte=g0fjfQfj", r.Hash)
	_, ok = <-ch
	assert.False(t, ok, "channel must be closed after one result")

	dch := std.DecodeAsync(ctx, NewDecodeRequest(knownHash, 4, 3))
	d := <-dch
	require.NoError(t, d.Err)
	assert.Len(t, d.Pixels, 4*3*3)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	d = <-std.DecodeAsync(cancelled, NewDecodeRequest(knownHash, 4, 3))
	assert.ErrorIs(t, d.Err, context.Canceled)
	r = <-std.EncodeAsync(cancelled, EncodeRequest{})
	assert.ErrorIs(t, r.Err, context.Canceled)

	r = <-std.EncodeAsync(ctx, EncodeRequest{Pixels: gradientRGB(16, 12), Width: 16, Height: 12})
	assert.ErrorIs(t, r.Err, ErrInvalidComponentCount)
	assert.Empty(t, r.Hash)
}
