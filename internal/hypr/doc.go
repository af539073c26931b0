// Package hypr models a Hyprland config file as an ordered tree of entries,
// converts between that tree and text, and records reversible edits.
//
// Parse and Serialize are the codec. Known lines (variables, exec-once,
// monitor, bind*, gesture, blocks and their settings) are re-emitted in
// canonical form; comments, blank lines and unknown directives are kept
// verbatim as RawLine entries.
//
// A Document has no exported mutators. Changes go through a History:
//
//	doc, _ := hypr.Parse(text, hypr.ParseOptions{})
//	h := hypr.NewHistory(doc)
//	h.SetValue("decoration.blur", "size", "5")
//	h.Undo()
//
// Variables are resolved by a single textual substitution pass; see
// ResolveVariables.
package hypr
