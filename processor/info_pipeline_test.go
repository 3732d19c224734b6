package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/nci/envi/utils"
	"gopkg.in/yaml.v2"
)

func writeHeader(t *testing.T, dir, name string, bands int, interleave string, dataSize int) {
	text := fmt.Sprintf("ENVI\nsamples = 2\nlines = 2\nbands = %d\nheader offset = 0\nfile type = ENVI Standard\ndata type = 1\ninterleave = %s\nbyte order = 0\n", bands, interleave)
	if err := ioutil.WriteFile(filepath.Join(dir, name+".hdr"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	if dataSize >= 0 {
		if err := ioutil.WriteFile(filepath.Join(dir, name+".dat"), make([]byte, dataSize), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func testTree(t *testing.T) string {
	dir, err := ioutil.TempDir("", "envi_crawl")
	if err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err = os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeHeader(t, dir, "cube", 4, "bil", 16)
	writeHeader(t, sub, "single", 1, "bsq", 4)
	writeHeader(t, sub, "orphan", 3, "bip", -1)
	writeHeader(t, sub, "short", 2, "bsq", 3)
	if err = ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runPipeline(t *testing.T, root, format, filter string, contains *regexp.Regexp) (string, []error) {
	errChan := make(chan error, 100)
	var errs []error
	done := make(chan struct{})
	go func() {
		for err := range errChan {
			errs = append(errs, err)
		}
		close(done)
	}()

	pipeline := InitInfoPipeline(context.Background(), 4, format, errChan)
	expr, err := ParseFilter(filter)
	if err != nil {
		t.Fatal(err)
	}
	pipeline.Filter = expr

	var buf bytes.Buffer
	p := pipeline.Process(root, contains, &buf)
	<-p.Out
	close(errChan)
	<-done
	return buf.String(), errs
}

func decodeRecords(t *testing.T, out string) map[string]*HeaderFile {
	records := make(map[string]*HeaderFile)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if len(line) == 0 {
			continue
		}
		var hf HeaderFile
		if err := json.Unmarshal([]byte(line), &hf); err != nil {
			t.Fatalf("%v: %s", err, line)
		}
		records[filepath.Base(hf.FileName)] = &hf
	}
	return records
}

func TestInfoPipelineJSON(t *testing.T) {
	root := testTree(t)
	defer os.RemoveAll(root)

	out, errs := runPipeline(t, root, FormatJSON, "", nil)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	records := decodeRecords(t, out)
	var names []string
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "cube.hdr,orphan.hdr,short.hdr,single.hdr" {
		t.Fatalf("unexpected records: %v", names)
	}

	cube := records["cube.hdr"]
	if cube.Info.Bands != 4 || cube.Info.Interleave != "bil" || cube.DataSize != 16 || !cube.Complete() {
		t.Errorf("unexpected cube record: %+v %+v", cube, cube.Info)
	}
	if records["orphan.hdr"].DataFile != "" || records["orphan.hdr"].Complete() {
		t.Errorf("orphan should have no data file: %+v", records["orphan.hdr"])
	}
	if records["short.hdr"].Complete() {
		t.Errorf("short data file should be incomplete")
	}
}

func TestInfoPipelineFilter(t *testing.T) {
	root := testTree(t)
	defer os.RemoveAll(root)

	out, errs := runPipeline(t, root, FormatJSON, "bands > 1 && complete", nil)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	records := decodeRecords(t, out)
	if len(records) != 1 || records["cube.hdr"] == nil {
		t.Errorf("expected only cube.hdr, got %v", records)
	}

	out, _ = runPipeline(t, root, FormatJSON, "interleave == 'bsq'", regexp.MustCompile("sub"))
	records = decodeRecords(t, out)
	if len(records) != 2 || records["single.hdr"] == nil || records["short.hdr"] == nil {
		t.Errorf("expected the bsq headers below sub, got %v", records)
	}
}

func TestInfoPipelineTSV(t *testing.T) {
	root := testTree(t)
	defer os.RemoveAll(root)

	out, _ := runPipeline(t, root, FormatTSV, "path =~ 'cube'", nil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected an envi line and two posix lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "cube.hdr\tenvi\t{") {
		t.Errorf("unexpected envi line: %s", lines[0])
	}
	if !strings.Contains(lines[1], "cube.hdr\tposix\t") || !strings.Contains(lines[2], "cube.dat\tposix\t") {
		t.Errorf("unexpected posix lines: %s", out)
	}
}

func TestInfoEncoderYAML(t *testing.T) {
	root := testTree(t)
	defer os.RemoveAll(root)

	hf, err := ExtractHeaderFile(filepath.Join(root, "cube.hdr"), nil, quietDiag)
	if err != nil {
		t.Fatal(err)
	}
	e := NewInfoEncoder(FormatYAML, make(chan error, 1))
	recs, err := e.Encode(hf)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || !bytes.HasPrefix(recs[0], []byte("---\n")) {
		t.Fatalf("unexpected yaml records: %q", recs)
	}

	var decoded map[string]interface{}
	if err = yaml.Unmarshal(recs[0], &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["data_size"] != 16 {
		t.Errorf("unexpected yaml document: %v", decoded)
	}

	if _, err = NewInfoEncoder("xml", nil).Encode(hf); err == nil {
		t.Errorf("expected an error for xml")
	}
}

func TestParseFilter(t *testing.T) {
	expr, err := ParseFilter("  ")
	if expr != nil || err != nil {
		t.Errorf("expected no filter for a blank expression")
	}
	if _, err = ParseFilter("owner == 'me'"); err == nil {
		t.Errorf("expected an error for an unknown variable")
	}
	if _, err = ParseFilter("bands >"); err == nil {
		t.Errorf("expected a syntax error")
	}

	expr, err = ParseFilter("samples * lines")
	if err != nil {
		t.Fatal(err)
	}
	hf, err := ExtractHeaderFile("absent.hdr", nil, quietDiag)
	if err == nil || hf != nil {
		t.Errorf("expected an error for a missing header")
	}
	root := testTree(t)
	defer os.RemoveAll(root)
	hf, err = ExtractHeaderFile(filepath.Join(root, "cube.hdr"), nil, quietDiag)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = EvaluateFilter(expr, hf); err == nil {
		t.Errorf("expected an error for a non boolean filter")
	}
}

var quietDiag = utils.Quiet()
