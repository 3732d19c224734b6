package processor

import (
	"context"
	"io"
	"regexp"

	goeval "github.com/edisonguo/govaluate"
	"github.com/nci/envi/utils"
)

// InfoPipeline crawls a directory tree for ENVI headers and writes one
// record per accepted header.
type InfoPipeline struct {
	Context     context.Context
	Error       chan error
	Concurrency int
	Filter      *goeval.EvaluableExpression
	Format      string
	Extensions  []string
	Diagnostics utils.Diagnostics
}

func InitInfoPipeline(ctx context.Context, concurrency int, format string, errChan chan error) *InfoPipeline {
	return &InfoPipeline{
		Context:     ctx,
		Error:       errChan,
		Concurrency: concurrency,
		Format:      format,
		Diagnostics: utils.Quiet(),
	}
}

// Process starts the pipeline. The returned printer's Out channel is
// closed once every record has been written.
func (dp *InfoPipeline) Process(rootPath string, contains *regexp.Regexp, file io.Writer) *InfoPrinter {
	i := NewFileCrawler(dp.Context, rootPath, contains, dp.Error)
	go func() {
		i.In <- rootPath
		close(i.In)
	}()

	x := NewHeaderExtractor(dp.Context, dp.Concurrency, dp.Filter, dp.Extensions, dp.Diagnostics, dp.Error)
	e := NewInfoEncoder(dp.Format, dp.Error)
	p := NewInfoPrinter(file, dp.Error)

	x.In = i.Out
	e.In = x.Out
	p.In = e.Out

	go i.Run()
	go x.Run()
	go e.Run()
	go p.Run()

	return p
}
