package mondoc

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeNull             = "null"
	CodeRequired         = "required"
	CodeInvalidType      = "invalid_type"
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidID        = "invalid_id"
	CodeInvalidInput     = "invalid_input"
	CodeUnknownField     = "unknown_field"
	CodeUnknownDocument  = "unknown_document"
	CodeNotCreated       = "not_created"
	CodeBadCollection    = "bad_collection"
	CodeBadReference     = "bad_reference"
	CodeGenericReference = "generic_reference"
	CodeUnique           = "unique"
	CodeUniqueCompound   = "unique_compound"
	// Rule codes (value-level constraints)
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
)

// SchemaKey is the pseudo path under which issues with no field path are
// grouped in the Tree view.
const SchemaKey = "_schema"

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Dotted declared path ("items.2.price"); empty for whole-record issues.
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		p := it.Path
		if p == "" {
			p = SchemaKey
		}
		fmt.Fprintf(b, "%s at %s", it.Code, p)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// PrefixIssues rebases every issue of err under the given path segment.
// Errors that are not Issues are wrapped as a single issue at that path.
func PrefixIssues(segment string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: segment, Code: CodeInvalidInput, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := segment
		if it.Path != "" {
			p = segment + "." + it.Path
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Cause: it.Cause})
	}
	return out
}

// Tree renders the issues as a nested, path-keyed map of message lists.
// Leaves are []string; intermediate nodes are map[string]any. Issues with an
// empty path land under SchemaKey.
func (iss Issues) Tree() map[string]any {
	root := map[string]any{}
	for _, it := range iss {
		segs := []string{SchemaKey}
		if it.Path != "" {
			segs = strings.Split(it.Path, ".")
		}
		node := root
		for i, seg := range segs {
			if i == len(segs)-1 {
				msgs, _ := node[seg].([]string)
				node[seg] = append(msgs, it.Message)
				break
			}
			next, _ := node[seg].(map[string]any)
			if next == nil {
				next = map[string]any{}
				node[seg] = next
			}
			node = next
		}
	}
	return root
}

// NotRegisteredError reports a document or embedded-document name that could
// not be resolved through the registry.
type NotRegisteredError struct {
	Kind string // "document" or "embedded document"
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("mondoc: %s %q is not registered", e.Kind, e.Name)
}

// ContractError reports an illegal field or schema declaration. It is raised
// at declaration time and is a programmer error, not a runtime condition.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string { return "mondoc: " + e.Reason }

// Contractf builds a ContractError from a format string.
func Contractf(format string, args ...any) *ContractError {
	return &ContractError{Reason: fmt.Sprintf(format, args...)}
}
