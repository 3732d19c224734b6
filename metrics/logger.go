package metrics

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger receives one record per request or decode.
type Logger interface {
	Log(info *MetricsInfo)
}

// WriterLogger writes records as JSON lines to an io.Writer.
type WriterLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{w: w}
}

func NewStdoutLogger() *WriterLogger {
	return NewWriterLogger(os.Stdout)
}

func (l *WriterLogger) Log(info *MetricsInfo) {
	infoStr, err := info.ToJSON()
	if err != nil {
		log.Printf("WriterLogger: error: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err = io.WriteString(l.w, infoStr); err != nil {
		log.Printf("WriterLogger: write error: %v", err)
	}
}

const defaultQueueSize = 2000
const defaultLogWriters = 2
const defaultMaxLogFileSize = 1024 * 1024 * 1024
const defaultMaxLogFiles = 10

// FileLogger queues records for a pool of writers, each appending to
// its own rotated file "<prefix><n>" under LogDir.
type FileLogger struct {
	MetricsQueue   chan *MetricsInfo
	LogDir         string
	Prefix         string
	MaxLogFileSize int64
	MaxLogFiles    int
	Verbose        bool
	writers        sync.WaitGroup
}

func NewFileLogger(logDir, prefix string, maxLogFileSize int64, maxLogFiles int, verbose bool) *FileLogger {
	if len(prefix) == 0 {
		prefix = "decode"
	}
	if maxLogFileSize <= 0 {
		maxLogFileSize = defaultMaxLogFileSize
	}
	if maxLogFiles <= 0 {
		maxLogFiles = defaultMaxLogFiles
	}
	logger := &FileLogger{
		MetricsQueue:   make(chan *MetricsInfo, defaultQueueSize),
		LogDir:         logDir,
		Prefix:         prefix,
		MaxLogFileSize: maxLogFileSize,
		MaxLogFiles:    maxLogFiles,
		Verbose:        verbose,
	}

	for i := 0; i < defaultLogWriters; i++ {
		logger.writers.Add(1)
		go logger.startLogWriter(i)
	}

	return logger
}

func (l *FileLogger) Log(info *MetricsInfo) {
	l.MetricsQueue <- info
}

// Close stops accepting records and waits for the queue to drain.
func (l *FileLogger) Close() {
	close(l.MetricsQueue)
	l.writers.Wait()
}

func (l *FileLogger) startLogWriter(idx int) {
	defer l.writers.Done()

	f, err := l.openLogFile(idx)
	if err != nil {
		log.Printf("FileLogger%d: log open error: %v", idx, err)
		for range l.MetricsQueue {
		}
		return
	}
	defer func() { f.Close() }()

	for info := range l.MetricsQueue {
		infoStr, err := info.ToJSON()
		if err != nil {
			log.Printf("FileLogger%d: info.ToJSON() error: %v", idx, err)
			continue
		}

		if f, err = l.rotate(f, idx); err != nil {
			log.Printf("FileLogger%d: log rotation error: %v", idx, err)
			continue
		}
		if _, err = f.WriteString(infoStr); err != nil {
			log.Printf("FileLogger%d: write error: %v", idx, err)
			continue
		}
		f.Sync()
	}
}

func (l *FileLogger) fileName(idx int) string {
	return fmt.Sprintf("%s%d", l.Prefix, idx)
}

func (l *FileLogger) logPath(idx int) string {
	return filepath.Join(l.LogDir, l.fileName(idx))
}

func (l *FileLogger) openLogFile(idx int) (*os.File, error) {
	return os.OpenFile(l.logPath(idx), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// rotate moves the current file aside once it reaches MaxLogFileSize
// and opens a fresh one. Below the limit f is returned untouched.
func (l *FileLogger) rotate(f *os.File, idx int) (*os.File, error) {
	if f == nil {
		return l.openLogFile(idx)
	}

	info, err := f.Stat()
	if err != nil || info.Size() < l.MaxLogFileSize {
		return f, nil
	}

	target, err := l.rotationTarget(idx)
	if err != nil {
		return f, err
	}

	f.Close()
	if err = os.Rename(l.logPath(idx), target); err != nil {
		log.Printf("FileLogger%d: log rotation error: %v", idx, err)
	} else if l.Verbose {
		log.Printf("FileLogger%d: log file rotated: %v", idx, target)
	}
	return l.openLogFile(idx)
}

// rotationTarget picks the first free "<name>.<n>" slot. When all
// MaxLogFiles slots are taken the oldest one is removed and reused.
func (l *FileLogger) rotationTarget(idx int) (string, error) {
	base := l.fileName(idx)
	for i := 0; i < l.MaxLogFiles; i++ {
		candidate := filepath.Join(l.LogDir, fmt.Sprintf("%s.%d", base, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	files, err := ioutil.ReadDir(l.LogDir)
	if err != nil {
		return "", err
	}

	target := filepath.Join(l.LogDir, base+".0")
	oldest := time.Now()
	for _, file := range files {
		name := file.Name()
		if !file.Mode().IsRegular() || !strings.HasPrefix(name, base+".") {
			continue
		}
		if file.ModTime().Before(oldest) {
			oldest = file.ModTime()
			target = filepath.Join(l.LogDir, name)
		}
	}

	if l.Verbose {
		log.Printf("FileLogger%d: maximum number of log files reached, overwriting %s", idx, target)
	}
	if err = os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return target, nil
}
