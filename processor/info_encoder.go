package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"syscall"

	"gopkg.in/yaml.v2"
)

type POSIXDescriptor struct {
	GID   uint32 `json:"gid"`
	Group string `json:"group"`
	UID   uint32 `json:"uid"`
	User  string `json:"user"`
	Size  int64  `json:"size"`
	Mode  string `json:"mode"`
	Type  string `json:"type"`
	INode uint64 `json:"inode"`
	MTime int64  `json:"mtime"`
	ATime int64  `json:"atime"`
	CTime int64  `json:"ctime"`
}

// GetPOSIXDescriptor collects ownership and timestamps of path.
func GetPOSIXDescriptor(path string) (*POSIXDescriptor, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var rec syscall.Stat_t
	err = syscall.Lstat(path, &rec)
	if err != nil {
		return nil, err
	}

	descr := &POSIXDescriptor{INode: rec.Ino, MTime: rec.Mtim.Sec, CTime: rec.Ctim.Sec, ATime: rec.Atim.Sec, Size: finfo.Size(), Mode: finfo.Mode().String(), Type: "file", UID: rec.Uid, GID: rec.Gid}
	if gid, err := user.LookupGroupId(fmt.Sprintf("%d", rec.Gid)); err == nil {
		descr.Group = gid.Name
	}
	if uid, err := user.LookupId(fmt.Sprintf("%d", rec.Uid)); err == nil {
		descr.User = uid.Username
	}
	return descr, nil
}

// Output formats of the encoder.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// InfoEncoder serialises crawl records. The tsv format writes
// "<path>\tenvi\t<json>" lines followed by a posix line for the header
// and, when found, the data file.
type InfoEncoder struct {
	In     chan *HeaderFile
	Out    chan []byte
	Error  chan error
	Format string
}

func NewInfoEncoder(format string, errChan chan error) *InfoEncoder {
	return &InfoEncoder{
		In:     make(chan *HeaderFile, 100),
		Out:    make(chan []byte, 100),
		Error:  errChan,
		Format: format,
	}
}

func (ie *InfoEncoder) Run() {
	defer close(ie.Out)

	for hf := range ie.In {
		recs, err := ie.Encode(hf)
		if err != nil {
			ie.Error <- err
			continue
		}
		for _, rec := range recs {
			ie.Out <- rec
		}
	}
}

// Encode renders hf in the configured format.
func (ie *InfoEncoder) Encode(hf *HeaderFile) ([][]byte, error) {
	switch ie.Format {
	case FormatJSON:
		out, err := json.Marshal(hf)
		if err != nil {
			return nil, err
		}
		return [][]byte{append(out, '\n')}, nil

	case FormatYAML:
		out, err := yaml.Marshal(hf)
		if err != nil {
			return nil, err
		}
		return [][]byte{append([]byte("---\n"), out...)}, nil

	case FormatTSV, "":
		out, err := json.Marshal(hf)
		if err != nil {
			return nil, err
		}
		recs := [][]byte{[]byte(fmt.Sprintf("%s\tenvi\t%s\n", hf.FileName, string(out)))}

		for _, path := range []string{hf.FileName, hf.DataFile} {
			if len(path) == 0 {
				continue
			}
			descr, err := GetPOSIXDescriptor(path)
			if err != nil {
				ie.Error <- err
				continue
			}
			out, err = json.Marshal(descr)
			if err != nil {
				return nil, err
			}
			recs = append(recs, []byte(fmt.Sprintf("%s\tposix\t%s\n", path, string(out))))
		}
		return recs, nil
	}
	return nil, fmt.Errorf("Unsupported output format: %s", ie.Format)
}
