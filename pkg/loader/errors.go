package loader

import "fmt"

// MissingFileError reports a path declared in plugin.json that does not exist
// or yields no documents. Declared paths must never load silently empty.
type MissingFileError struct {
	Kind   string // agents, skills, commands, hooks
	Path   string // path as declared in the manifest
	Reason string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s path %q: %s", e.Kind, e.Path, e.Reason)
}

// MalformedFrontmatterError reports a document whose YAML frontmatter or JSON
// body failed to parse. The document is excluded from the loaded set; its
// well-formed siblings still load.
type MalformedFrontmatterError struct {
	Path string
	Err  error
}

func (e *MalformedFrontmatterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *MalformedFrontmatterError) Unwrap() error {
	return e.Err
}
