// Package cursor computes the extent of visual selections.
//
// A Selection is an anchor/head pair of buffer offsets: Anchor is where the
// selection started, Head is where the cursor is now. Compute turns a
// Selection plus a visual mode into concrete Bounds:
//
//   - ModeChar (v): raw offsets, extended by one character when the
//     selection is inclusive or empty
//   - ModeLine (V): the full lines spanned
//   - ModeBlock (CTRL-V): a rectangle of virtual columns, with the start and
//     end offset of every line in it
//
// Virtual columns account for tab stops and double-width characters, so a
// block selection stays rectangular on screen even when lines mix tabs and
// spaces.
//
// Basic usage:
//
//	sel := cursor.NewSelection(anchor, head)
//	b, err := cursor.Compute(buf, sel, cursor.ModeBlock, cursor.Options{Inclusive: true})
//	for _, span := range b.Lines {
//		fmt.Println(buf.Slice(span.Start, span.End))
//	}
package cursor
