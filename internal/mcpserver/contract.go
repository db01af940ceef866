package mcpserver

// FormatContract describes the advanced dictionary source format that LLM
// consumers should follow when writing entries.
const FormatContract = `# stenomix Dictionary Format

A source document is a JSON object (or YAML mapping) from translation
definitions to stroke definitions. A value is a single stroke definition or
a list of them. Key order is kept, and on stroke collisions the later
entry wins.

` + "```" + `json
{
  "cat": "KAT",
  "dog|m": "TKAOG",
  "[cat,dog] food|e": "[]/TPAOD"
}
` + "```" + `

compiles to

` + "```" + `json
{
"KAT": "cat",
"KAT/TPAOD": "cat food",
"TKAOG/TPAOD": "dog food"
}
` + "```" + `

## Translations

- Literal text, with option groups ` + "`" + `[a,b,...]` + "`" + ` that may nest. Each
  combination of alternatives produces its own entry.
- A backslash escapes ` + "`" + `[ ] , \` + "`" + ` inside literal text.
- An optional ` + "`" + `|flags` + "`" + ` suffix (after the last ` + "`" + `|` + "`" + `):
  - ` + "`" + `e` + "`" + ` entry only, ` + "`" + `m` + "`" + ` mixin only (default is both)
  - ` + "`" + `l` + "`" + ` / ` + "`" + `r` + "`" + ` register the mixin on the left or right side only
  - ` + "`" + `L` + "`" + ` / ` + "`" + `R` + "`" + ` switch to the left or right side after the mixin

## Stroke definitions

- A capitalized word such as ` + "`" + `KAT` + "`" + ` is read key by key: each
  letter names the mixin of that key on the current side, and vowels and
  ` + "`" + `*` + "`" + ` switch to the right side.
- ` + "`" + `-` + "`" + ` switches to the right side, ` + "`" + `+` + "`" + ` to the left, ` + "`" + `/` + "`" + ` starts
  a new stroke on the left.
- A word mixin such as ` + "`" + `Ing` + "`" + ` refers to the translation ` + "`" + `ing` + "`" + `; a
  quoted name such as ` + "`" + `"it's"` + "`" + ` refers to a translation verbatim.
- ` + "`" + `&` + "`" + ` adds the following part (the default), ` + "`" + `^` + "`" + ` subtracts it.
- ` + "`" + `[x,y]` + "`" + ` is an option group matching the translation's option group
  with the same index; ` + "`" + `[1 x,y]` + "`" + ` binds it explicitly to group 1.
  An empty alternative is filled in with the mixin named after the matching
  translation alternative, so ` + "`" + `[]` + "`" + ` reuses every alternative.

## Diagnostics

Stroke collisions between different translations and conflicting mixin
redefinitions are reported as diagnostics; the compile still succeeds.
Unknown or cyclic mixins and malformed definitions are errors.
`
