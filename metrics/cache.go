package metrics

import (
	"github.com/npillmayer/splaytext"
	"github.com/npillmayer/splaytext/segvec"
	"github.com/npillmayer/uax/uax11"
)

// MaxCachedLines is the size of the window of lines a WidthCache remembers.
// Changes which would grow the window beyond it clear the cache.
const MaxCachedLines = 1000

// WidthCache remembers the widths of a window of consecutive lines. Created
// with NewWidthCache it follows the replace events of its text; the zero
// value is a detached cache to be maintained by the client.
type WidthCache struct {
	start   int
	widths  *segvec.Vector[int] // ones' complement, 0 marks an invalid entry
	text    *splaytext.Text
	context *uax11.Context
}

// NewWidthCache creates a cache for the line widths of text and registers
// it for replace events. context may be nil, see LineWidth.
func NewWidthCache(text *splaytext.Text, context *uax11.Context) *WidthCache {
	c := &WidthCache{text: text, context: context}
	text.OnReplace(c.Replaced)
	return c
}

func (c *WidthCache) vector() *segvec.Vector[int] {
	if c.widths == nil {
		c.widths, _ = segvec.New[int](segvec.Config{})
	}
	return c.widths
}

// Width returns the width of line index of the attached text, measuring it
// if it is not cached.
func (c *WidthCache) Width(index int) (int, error) {
	if w, ok := c.TryGet(index); ok {
		return w, nil
	}
	line, err := c.text.Line(index)
	if err != nil {
		return 0, err
	}
	w := LineWidth(line, c.context)
	c.Set(index, w)
	return w, nil
}

// Replaced adjusts the cache to a replace event.
func (c *WidthCache) Replaced(ev splaytext.ReplaceEvent) {
	c.Delete(ev.StartLine+1, ev.LinesRemoved())
	c.Insert(ev.StartLine+1, ev.LinesAffected()-1)
	c.Invalidate(ev.StartLine)
}

// Clear invalidates all entries.
func (c *WidthCache) Clear() {
	c.start = 0
	c.vector().Clear()
}

// Set remembers the width of line index.
func (c *WidthCache) Set(index, width int) {
	v := c.vector()
	if v.Len() != 0 && (index-c.start >= MaxCachedLines || c.start+v.Len()-index >= MaxCachedLines) {
		tracer().Debugf("metrics: line %d outside of cached window, clearing", index)
		c.Clear()
	}
	switch {
	case v.Len() == 0:
		c.start = index
		v.Append(0)
	case index < c.start:
		v.InsertZeroed(0, c.start-index)
		c.start = index
	case index >= c.start+v.Len():
		v.InsertZeroed(v.Len(), index+1-(c.start+v.Len()))
	}
	v.Set(index-c.start, ^width)
}

// TryGet returns the width of line index, if it is cached.
func (c *WidthCache) TryGet(index int) (int, bool) {
	v := c.vector()
	if index < c.start || index >= c.start+v.Len() {
		return 0, false
	}
	if w := ^v.At(index - c.start); w >= 0 {
		return w, true
	}
	return 0, false
}

// Invalidate forgets the width of line index.
func (c *WidthCache) Invalidate(index int) {
	v := c.vector()
	if index >= c.start && index < c.start+v.Len() {
		v.Set(index-c.start, 0)
	}
}

// Insert shifts the entries for lines at and behind index by count lines.
func (c *WidthCache) Insert(index, count int) {
	v := c.vector()
	if count <= 0 {
		return
	}
	if v.Len()+count > MaxCachedLines {
		c.Clear()
		return
	}
	switch {
	case index <= c.start:
		c.start += count
	case index <= c.start+v.Len():
		v.InsertZeroed(index-c.start, count)
	}
}

// Delete drops the entries for lines [index, index+count) and shifts the
// entries behind.
func (c *WidthCache) Delete(index, count int) {
	v := c.vector()
	if count <= 0 {
		return
	}
	switch {
	case index+count <= c.start:
		c.start -= count
	case index <= c.start:
		before := c.start - index
		v.RemoveRange(0, min(count-before, v.Len()))
		c.start = index
	case index < c.start+v.Len():
		v.RemoveRange(index-c.start, min(count, c.start+v.Len()-index))
	}
}
