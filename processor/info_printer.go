package processor

import (
	"io"
)

// InfoPrinter writes encoded records to File and counts them.
type InfoPrinter struct {
	In    chan []byte
	Out   chan struct{}
	File  io.Writer
	Error chan error
	Count int
}

func NewInfoPrinter(file io.Writer, errChan chan error) *InfoPrinter {
	return &InfoPrinter{
		In:    make(chan []byte, 100),
		Out:   make(chan struct{}),
		File:  file,
		Error: errChan,
	}
}

func (ip *InfoPrinter) Run() {
	defer close(ip.Out)

	for line := range ip.In {
		if _, err := ip.File.Write(line); err != nil {
			ip.Error <- err
			continue
		}
		ip.Count++
	}
}
