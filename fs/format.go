// Package fs stages fetched documents on the local file system.
package fs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/jobcatch"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---\n"

// PageFileName returns the staged file name of the detail page at url.
func PageFileName(url string) string {
	return fmt.Sprintf("%016x.page", xxhash.Sum64String(url))
}

// FormatDocument renders a document as YAML frontmatter followed by its
// content.
func FormatDocument(doc *jobcatch.PageDocument) (string, error) {
	header, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString(frontmatterDelim)
	b.Write(header)
	b.WriteString(frontmatterDelim)
	b.WriteString(doc.Content)
	return b.String(), nil
}

// ParseDocument reads a document written by FormatDocument. Data without
// frontmatter is returned as the content of an otherwise empty document.
func ParseDocument(data []byte) (*jobcatch.PageDocument, error) {
	doc := &jobcatch.PageDocument{}
	if !bytes.HasPrefix(data, []byte(frontmatterDelim)) {
		doc.Content = string(data)
		return doc, nil
	}

	rest := data[len(frontmatterDelim):]
	end := bytes.Index(rest, []byte("\n"+frontmatterDelim))
	if end < 0 {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "unterminated frontmatter")
	}
	if err := yaml.Unmarshal(rest[:end+1], doc); err != nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "invalid frontmatter: %v", err)
	}
	doc.Content = string(rest[end+1+len(frontmatterDelim):])
	return doc, nil
}
