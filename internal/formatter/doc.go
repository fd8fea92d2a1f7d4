// Package formatter renders file-name templates such as
//
//	{subscription.id}/{document.date:%Y-%m}_{document.id}.{extension}
//
// into relative paths that are safe to create under an archive root.
//
// The template language follows the usual brace syntax: {} and {0} are
// positional fields, {name} is a named field, .attr and [attr] walk into
// the attributes of a subscription or document, {{ and }} are literal
// braces, and :spec formats the value (strftime directives for dates,
// [[fill]align][0][width][.precision][s|d] otherwise).
//
// Text values are sanitized by default: every "/" is replaced with the
// configured token ("_slash_" unless overridden) and a leading "." becomes
// "dot_". Conversion flags change that per field:
//
//	!u  insert the value verbatim
//	!d  substitute the minimum timestamp for NotLoaded/NotAvailable values
//	!s  render the value as text without sanitizing
//	!r  render the quoted form of the value
//
// Values that are not text (dates, numbers, missing markers) are never
// sanitized.
package formatter
