// Package arrange reorders sibling entries of a source document according
// to prioritized match rules and rewrites the document text to match.
//
// An arrangement pass works on a tree of [Entry] values produced by a
// language-specific parser (see [Rearranger]). For every sibling list,
// innermost first, the pass:
//
//  1. ranks the siblings with [Rank]: pinned entries first, then rule
//     buckets section by section, then unmatched entries, with dependents
//     placed right after their last dependency;
//  2. decides where section delimiter comments are due with [Annotate];
//  3. rewrites the text of the sibling list from the last position to the
//     first, moving entry text into its new slot while the whitespace
//     between slots stays where it is, and setting the blank-line count
//     before each entry from a [BlankLinesFunc].
//
// Two strategies write to the document. The snapshot strategy computes the
// new text of a sibling list from one read of the document and issues one
// replacement. The marker strategy moves entry text with the document's
// MoveText primitive so range markers held by the host travel with the
// text. Both produce identical text.
//
// Basic usage:
//
//	public := arrange.NewRule(arrange.All(arrange.Modifier("public"), arrange.Type("method")))
//	fields := arrange.NewRule(arrange.Type("field"), arrange.WithOrder(arrange.ByName))
//	settings := arrange.NewSettings(arrange.Section("", fields), arrange.Section("", public))
//
//	eng := arrange.New(arrange.WithBlankLines(policy))
//	res, err := eng.Arrange(doc, entries, settings)
//
// A pass is single threaded and assumes exclusive write access to the
// document for its duration.
package arrange
