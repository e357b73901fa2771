package engine

import (
	"fmt"

	"github.com/bitrig/bitrig-xenocara/internal/pipe"
)

// Transfer describes a mapped region of a resource. It only carries data;
// traces never call methods on it.
type Transfer struct {
	Resource    pipe.Resource
	Subresource pipe.Subresource
	Usage       uint32
	Box         pipe.Box
}

func (c *Context) getTransfer(args Args) (any, error) {
	r := newReader(args, "get_transfer")
	tex := r.resource("texture")
	sr := as[*pipe.Subresource](r, "sr")
	usage := r.uint("usage")
	box := as[*pipe.Box](r, "box")
	if r.err != nil {
		return nil, r.err
	}
	if tex == nil {
		return nil, nil
	}

	t := &Transfer{Resource: tex, Usage: usage}
	if sr != nil {
		t.Subresource = *sr
	}
	if box != nil {
		t.Box = *box
	}

	if usage&pipe.TransferRead != 0 && c.engine.opts.All && t.Box.Z >= 0 {
		c.presentResource(tex, t.Subresource, uint32(t.Box.Z), "transf_read", boxRegion(t.Box))
	}
	return t, nil
}

func (c *Context) transferDestroy(args Args) (any, error) {
	if v, ok := args.Get("transfer"); ok {
		c.engine.objects.Unregister(v)
	}
	return nil, nil
}

func (c *Context) transferInlineWrite(args Args) (any, error) {
	r := newReader(args, "transfer_inline_write")
	res := r.resource("resource")
	sr := as[*pipe.Subresource](r, "sr")
	usage := r.uint("usage")
	box := as[*pipe.Box](r, "box")
	stride := r.optUint("stride", 0)
	sliceStride := r.optUint("slice_stride", 0)
	data := r.bytes("data")
	if r.err != nil {
		return nil, r.err
	}
	if res == nil {
		return nil, badArgument("transfer_inline_write: resource is NULL")
	}
	if box == nil {
		return nil, badArgument("transfer_inline_write: box is NULL")
	}
	var sub pipe.Subresource
	if sr != nil {
		sub = *sr
	}

	if err := c.real.TransferInlineWrite(res, sub, usage, *box, data, stride, sliceStride); err != nil {
		return nil, backendFailure("transfer_inline_write", err)
	}

	if c.engine.opts.All {
		for z := box.Z; z < box.Z+box.Depth; z++ {
			if z < 0 {
				continue
			}
			c.presentResource(res, sub, uint32(z), fmt.Sprintf("transf_inline_write%d", z), boxRegion(*box))
		}
	}
	return nil, nil
}
