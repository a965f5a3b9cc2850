// Package caption renders per-part captions from a template.
//
// Templates reference a fixed set of placeholders ({title}, {author},
// {movieid}, {duration}, {additional}, {timecodes}, {partition}); anything
// else is rejected by Parse, so a bad configured template fails at startup
// rather than in the middle of a run.
package caption
