// Package types holds the value types shared by every stage of the
// indexing pipeline: node identifiers, source ranges, and the per-language
// enumerations used to classify definitions, imports and relationships.
package types

import "fmt"

// NodeID is a stable per-table identifier. IDs are densely allocated from 1
// upward during a full build; during reindex new rows receive IDs strictly
// greater than the table's current maximum. 0 is never a valid node ID.
type NodeID uint32

// Language identifies one of the five languages this indexer analyzes.
type Language string

const (
	LanguageRuby   Language = "ruby"
	LanguageJava   Language = "java"
	LanguageKotlin Language = "kotlin"
	LanguagePython Language = "python"
	LanguageRust   Language = "rust"
)

// Separator returns the FQN part separator this language uses in its
// canonical fully-qualified names.
func (l Language) Separator() string {
	switch l {
	case LanguageRuby:
		return "::"
	default:
		return "."
	}
}

// languageExtensions maps supported extensions to a language tag. Extension
// gating during enumeration (§4.A) consults this table.
var languageExtensions = map[string]Language{
	".rb":  LanguageRuby,
	".java": LanguageJava,
	".kt":  LanguageKotlin,
	".kts": LanguageKotlin,
	".py":  LanguagePython,
	".rs":  LanguageRust,
}

// LanguageForExtension returns the language tag for a file extension
// (including the leading dot) and whether the extension is supported.
func LanguageForExtension(ext string) (Language, bool) {
	lang, ok := languageExtensions[ext]
	return lang, ok
}

// SupportedExtensions returns the full extension gating set, used by the
// file scanner to skip files the analyzer has no extractor for.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(languageExtensions))
	for ext := range languageExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// DefinitionKind enumerates the semantic kinds a Definition node may have.
// These are language-agnostic categories; per-language extractors map their
// grammar's node kinds onto this set.
type DefinitionKind string

const (
	KindClass            DefinitionKind = "class"
	KindModule           DefinitionKind = "module"
	KindInterface        DefinitionKind = "interface"
	KindTrait            DefinitionKind = "trait"
	KindStruct           DefinitionKind = "struct"
	KindEnum             DefinitionKind = "enum"
	KindEnumConstant     DefinitionKind = "enum_constant"
	KindMethod           DefinitionKind = "method"
	KindSingletonMethod  DefinitionKind = "singleton_method"
	KindFunction         DefinitionKind = "function"
	KindLambda           DefinitionKind = "lambda"
	KindProc             DefinitionKind = "proc"
	KindConstructor      DefinitionKind = "constructor"
	KindField            DefinitionKind = "field"
	KindParameter        DefinitionKind = "parameter"
	KindLocalVariable    DefinitionKind = "local_variable"
	KindAssociatedFunc   DefinitionKind = "associated_function"
	KindVariant          DefinitionKind = "variant"
	KindAnnotation       DefinitionKind = "annotation"
	KindRecord           DefinitionKind = "record"
	KindImpl             DefinitionKind = "impl"
	KindUnion            DefinitionKind = "union"
)

// ImportKind enumerates the shape of an import/use statement.
type ImportKind string

const (
	ImportDirect   ImportKind = "direct"
	ImportAliased  ImportKind = "aliased"
	ImportWildcard ImportKind = "wildcard"
	ImportStatic   ImportKind = "static"
)

// Range is a source span expressed in all three coordinate systems the
// schema persists: byte offsets (exact, used for containment checks),
// 1-based inclusive lines, and 1-based columns. Tree-sitter reports
// 0-based rows/columns; extractors are responsible for the +1 shift.
type Range struct {
	StartByte int64
	EndByte   int64
	StartLine int32
	StartCol  int32
	EndLine   int32
	EndCol    int32
}

// Contains reports whether other lies entirely within r, by byte offset.
func (r Range) Contains(other Range) bool {
	return other.StartByte >= r.StartByte && other.EndByte <= r.EndByte
}

// Empty reports whether the range carries no span (the zero value).
func (r Range) Empty() bool {
	return r.StartByte == 0 && r.EndByte == 0
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}

// FQNPart is one segment of a definition's fully-qualified name: the
// segment's own short name and the kind of node that introduced it. FQNs
// are built by joining parts with the language's separator and split back
// into parts by the same separator (§8 invariant 4), except in Python where
// a literal separator character inside a name is escaped to '#'.
type FQNPart struct {
	Name string
	Kind DefinitionKind
}

// BuildFQN joins FQN parts using the language's canonical separator.
// Python escapes a literal '.' inside a part's name to '#' so that the
// joined FQN can always be split back into the original parts.
func BuildFQN(lang Language, parts []FQNPart) string {
	sep := lang.Separator()
	names := make([]string, len(parts))
	for i, p := range parts {
		name := p.Name
		if lang == LanguagePython {
			name = escapePythonDot(name)
		}
		names[i] = name
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += sep
		}
		out += n
	}
	return out
}

// SplitFQN reverses BuildFQN given only the joined string and separator;
// it does not recover per-part kinds (those are only known at extraction
// time), only the ordered name segments.
func SplitFQN(lang Language, fqn string) []string {
	sep := lang.Separator()
	if fqn == "" {
		return nil
	}
	var parts []string
	start := 0
	for i := 0; i+len(sep) <= len(fqn); {
		if fqn[i:i+len(sep)] == sep {
			parts = append(parts, unescapePythonDot(lang, fqn[start:i]))
			i += len(sep)
			start = i
			continue
		}
		i++
	}
	parts = append(parts, unescapePythonDot(lang, fqn[start:]))
	return parts
}

func escapePythonDot(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out = append(out, '#')
		} else {
			out = append(out, name[i])
		}
	}
	return string(out)
}

func unescapePythonDot(lang Language, name string) string {
	if lang != LanguagePython {
		return name
	}
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '#' {
			out = append(out, '.')
		} else {
			out = append(out, name[i])
		}
	}
	return string(out)
}
