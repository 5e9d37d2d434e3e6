/*
Package interpolate substitutes environment variables and file contents into
configuration documents before they get parsed.

The following placeholder forms are recognized, in both “unbraced” and
“braced” syntax:

	$FOO
	${FOO}
	${FOO:default}
	${FOO:"default"}
	${file:path/to/file}

Variable names are upper-cased before looking them up in the environment, so
${foo} and ${FOO} resolve to the same value. Unbraced names consist only of
letters, digits, and underscores; braced names can contain anything except “:”
and “}”, such as dots.

# Defaults

The following substitution

	${VARIABLE:default}

evaluates to “default” if VARIABLE is unset. Please note that a set but empty
VARIABLE evaluates to the empty string and not to the default. Defaults can be
enclosed in double quotes, which get stripped; thus ${VARIABLE:} and
${VARIABLE:""} both default to the empty string. Quoted defaults cannot contain
“}” (nor can unquoted defaults).

# Files

The special “file” name reads the contents of the file named by the default
part, relative to the current working directory:

	${file:/run/secrets/admin-password}

# Unresolvable Placeholders

Interpolation never fails. Placeholders that cannot be resolved (unset
variable without default, missing or unreadable file) are left verbatim in the
text and are reported via logging. Use [Unresolved] after parsing to find any
such leftovers.

# Implementation Note

Each pass finds all placeholders, resolves each distinct placeholder once, and
replaces all resolved placeholders in a single sweep. Only the matched
placeholder spans get replaced, so an unresolved $FOO_BAR stays as it is even
when $FOO resolves. The text is scanned again only if a value itself contains
a placeholder, so such values get expanded in turn. Values expanding into
themselves and cyclic values stop after a limited number of passes.
*/
package interpolate
