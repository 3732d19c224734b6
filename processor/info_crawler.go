package processor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// HeaderExtension is the extension of ENVI header files.
const HeaderExtension = ".hdr"

// FileCrawler emits the header files below root whose path matches re.
type FileCrawler struct {
	Context context.Context
	In      chan string
	Out     chan string
	Error   chan error
	root    string
	re      *regexp.Regexp
}

func NewFileCrawler(ctx context.Context, rootPath string, contains *regexp.Regexp, errChan chan error) *FileCrawler {
	return &FileCrawler{
		Context: ctx,
		In:      make(chan string, 100),
		Out:     make(chan string, 100),
		Error:   errChan,
		root:    rootPath,
		re:      contains,
	}
}

func isHeaderFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), HeaderExtension)
}

func (fc *FileCrawler) Run() {
	defer close(fc.Out)

	for root := range fc.In {
		fInfo, err := os.Stat(root)
		if err != nil {
			fc.Error <- err
			continue
		}

		if !fInfo.IsDir() {
			fc.emit(root)
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				fc.Error <- err
				return nil
			}
			if info.IsDir() || !isHeaderFile(path) {
				return nil
			}
			if fc.re != nil && !fc.re.MatchString(path) {
				return nil
			}
			if !fc.emit(path) {
				return fc.Context.Err()
			}
			return nil
		})
		if err != nil {
			fc.Error <- err
			return
		}
	}
}

func (fc *FileCrawler) emit(path string) bool {
	select {
	case fc.Out <- path:
		return true
	case <-fc.Context.Done():
		return false
	}
}
