package processor

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	goeval "github.com/edisonguo/govaluate"
	"github.com/nci/envi/header"
	"github.com/nci/envi/utils"
)

var filterVariables = []string{
	"path", "data_file", "data_size", "complete",
	"samples", "lines", "bands", "data_type", "data_type_code", "pixel_size",
	"byte_order", "interleave", "header_offset", "size",
}

// ParseFilter compiles a filter expression such as
// "bands > 3 && interleave == 'bil'". An empty expression yields nil.
func ParseFilter(filter string) (*goeval.EvaluableExpression, error) {
	if len(strings.TrimSpace(filter)) == 0 {
		return nil, nil
	}

	expr, err := goeval.NewEvaluableExpression(filter)
	if err != nil {
		return nil, err
	}

	validVariables := make(map[string]struct{}, len(filterVariables))
	for _, v := range filterVariables {
		validVariables[v] = struct{}{}
	}
	for _, token := range expr.Tokens() {
		if token.Kind == goeval.VARIABLE {
			varName, ok := token.Value.(string)
			if !ok {
				return nil, fmt.Errorf("variable token '%v' failed to cast string", token.Value)
			}
			if _, found := validVariables[varName]; !found {
				valid := append([]string{}, filterVariables...)
				sort.Strings(valid)
				return nil, fmt.Errorf("variable %v is not supported. Valid variables are %v", varName, valid)
			}
		}
	}
	return expr, nil
}

// EvaluateFilter applies expr to hf. A nil expression accepts everything.
func EvaluateFilter(expr *goeval.EvaluableExpression, hf *HeaderFile) (bool, error) {
	if expr == nil {
		return true, nil
	}

	result, err := expr.Evaluate(hf.Parameters())
	if err != nil {
		return false, fmt.Errorf("filter expression: %v", err)
	}

	val, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression: result '%v' is not boolean", result)
	}
	return val, nil
}

// ExtractHeaderFile reads the header at path and locates its data file.
// A missing data file is not an error; the record is left incomplete.
func ExtractHeaderFile(path string, extensions []string, diag utils.Diagnostics) (*HeaderFile, error) {
	h, err := header.Read(path, diag)
	if err != nil {
		return nil, err
	}
	info, err := h.Info()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	hf := &HeaderFile{FileName: path, Info: info}
	dataFile, err := utils.FindPairedFile(path, extensions)
	if err != nil {
		diag.Printf("%v", err)
		return hf, nil
	}

	hf.DataFile = dataFile
	if fInfo, err := os.Stat(dataFile); err == nil {
		hf.DataSize = fInfo.Size()
	}
	return hf, nil
}

// HeaderExtractor turns header paths into HeaderFile records, dropping
// the ones rejected by Filter.
type HeaderExtractor struct {
	Context     context.Context
	In          chan string
	Out         chan *HeaderFile
	Error       chan error
	Filter      *goeval.EvaluableExpression
	Extensions  []string
	Diagnostics utils.Diagnostics
	concurrency int
}

func NewHeaderExtractor(ctx context.Context, concurrency int, filter *goeval.EvaluableExpression, extensions []string, diag utils.Diagnostics, errChan chan error) *HeaderExtractor {
	if len(extensions) == 0 {
		extensions = utils.DefaultExtensions
	}
	return &HeaderExtractor{
		Context:     ctx,
		In:          make(chan string, 100),
		Out:         make(chan *HeaderFile, 100),
		Error:       errChan,
		Filter:      filter,
		Extensions:  extensions,
		Diagnostics: diag,
		concurrency: concurrency,
	}
}

func (he *HeaderExtractor) Run() {
	defer close(he.Out)

	cl := NewConcLimiter(he.concurrency)
	for path := range he.In {
		if !cl.IncreaseContext(he.Context) {
			he.Error <- fmt.Errorf("Header extractor context has been cancelled: %v", he.Context.Err())
			break
		}

		go func(p string) {
			defer cl.Decrease()

			hf, err := ExtractHeaderFile(p, he.Extensions, he.Diagnostics)
			if err != nil {
				he.Error <- err
				return
			}

			ok, err := EvaluateFilter(he.Filter, hf)
			if err != nil {
				he.Error <- fmt.Errorf("%s: %v", p, err)
				return
			}
			if !ok {
				return
			}

			select {
			case he.Out <- hf:
			case <-he.Context.Done():
			}
		}(path)
	}

	cl.Wait()
}
