package engine

import (
	"context"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// Parser turns Markdown into a document tree. block.Parser is the
// production implementation; tests substitute their own.
//
// A Parser must give the same tree for the same path and content, and must
// not touch the filesystem. The document it returns keeps path and a copy
// of content, is rooted at a NodeDocument and passes Tree.Check.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error)
}
