package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/jobcatch"
)

var (
	_ jobcatch.DocumentSource = (*Staging)(nil)
	_ jobcatch.DocumentStager = (*Staging)(nil)
)

// Staging keeps documents under root/<source>/feeds and root/<source>/pages.
type Staging struct {
	root string
}

// NewStaging creates a Staging rooted at dir.
func NewStaging(dir string) *Staging {
	return &Staging{root: dir}
}

func (s *Staging) feedDir(source string) string {
	return filepath.Join(s.root, source, "feeds")
}

func (s *Staging) pageDir(source string) string {
	return filepath.Join(s.root, source, "pages")
}

// Feeds returns the staged feeds of the board in file name order.
// A feed without frontmatter takes its file name as feed id and its
// modification time as fetch time. Unreadable feeds are skipped and
// returned as joined *jobcatch.FeedError values next to the others.
func (s *Staging) Feeds(ctx context.Context, board jobcatch.Board) ([]*jobcatch.PageDocument, error) {
	matches, err := filepath.Glob(filepath.Join(s.feedDir(board.Name()), board.FeedGlob()))
	if err != nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "invalid feed glob %q: %v", board.FeedGlob(), err)
	}
	sort.Strings(matches)

	docs := make([]*jobcatch.PageDocument, 0, len(matches))
	var errs []error
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := readDocument(path)
		if err != nil {
			errs = append(errs, &jobcatch.FeedError{Feed: filepath.Base(path), Err: err})
			continue
		}
		if doc.SourceFeedID == "" {
			doc.SourceFeedID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if doc.FetchedAt.IsZero() {
			if info, err := os.Stat(path); err == nil {
				doc.FetchedAt = info.ModTime().UTC()
			}
		}
		docs = append(docs, doc)
	}
	return docs, errors.Join(errs...)
}

// Page returns the staged detail page for url.
func (s *Staging) Page(ctx context.Context, source, url string) (*jobcatch.PageDocument, error) {
	path := filepath.Join(s.pageDir(source), PageFileName(url))
	doc, err := readDocument(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, jobcatch.Errorf(jobcatch.ENOTFOUND, "page %q not staged", url)
	} else if err != nil {
		return nil, err
	}
	if doc.URL == "" {
		doc.URL = url
	}
	return doc, nil
}

// PutFeed writes a feed document named after its SourceFeedID.
func (s *Staging) PutFeed(ctx context.Context, source string, doc *jobcatch.PageDocument) error {
	name := doc.SourceFeedID
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return jobcatch.Errorf(jobcatch.EINVALID, "invalid feed id %q", name)
	}
	return writeDocument(filepath.Join(s.feedDir(source), name+".feed"), doc)
}

// PutPage writes a detail page named after the hash of its URL.
func (s *Staging) PutPage(ctx context.Context, source string, doc *jobcatch.PageDocument) error {
	if doc.URL == "" {
		return jobcatch.Errorf(jobcatch.EINVALID, "page url required")
	}
	return writeDocument(filepath.Join(s.pageDir(source), PageFileName(doc.URL)), doc)
}

func readDocument(path string) (*jobcatch.PageDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// writeDocument writes to a temporary file in the target directory and
// renames it into place, so readers never see a partial document.
func writeDocument(path string, doc *jobcatch.PageDocument) error {
	content, err := FormatDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
