package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	proc "github.com/nci/envi/processor"
	"golang.org/x/crypto/ssh/terminal"
)

var passed = "Passed"
var failed = "Failed"

// operations requested for every header path of the list.
var operations = map[string][]string{
	"header":  {"header", "header&format=html"},
	"preview": {"gray=0", "gray=0&format=jpeg"},
	"band":    {"band=0&max=256"},
}

func get(u string) (int, []byte, error) {
	resp, err := http.Get(u)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func readPaths(pathList string) []string {
	f, err := os.Open(pathList)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err = scanner.Err(); err != nil {
		log.Fatal(err)
	}
	return paths
}

// Requests issues every operation of the suite against every path and
// reports whether all of them answered 200 with a non-empty body.
func Requests(host string, paths, ops []string, concLevel int) (bool, int, time.Duration) {
	start := time.Now()
	var failures int32
	var count int32

	conc := proc.NewConcLimiter(concLevel)
	for _, p := range paths {
		for _, op := range ops {
			conc.Increase()
			go func(u string) {
				defer conc.Decrease()
				atomic.AddInt32(&count, 1)

				status, body, err := get(u)
				if err != nil || status != http.StatusOK || len(body) == 0 {
					atomic.AddInt32(&failures, 1)
					log.Printf("%s: status %d, error %v", u, status, err)
				}
			}(fmt.Sprintf("http://%s%s?%s", host, (&url.URL{Path: p}).EscapedPath(), op))
		}
	}
	conc.Wait()

	return failures == 0, int(count), time.Since(start)
}

func Search(host string) bool {
	status, body, err := get(fmt.Sprintf("http://%s/?search&limit=1", host))
	if err != nil {
		log.Printf("search: %v", err)
		return false
	}
	return status == http.StatusOK && strings.HasPrefix(strings.TrimSpace(string(body)), "[")
}

func inRed(str string) string {
	return fmt.Sprintf("\x1b[31;1m%s\x1b[0m", str)
}

func inGreen(str string) string {
	return fmt.Sprintf("\x1b[32;1m%s\x1b[0m", str)
}

func main() {
	host := flag.String("h", "localhost:8080", "metadata API host name or address")
	suite := flag.String("s", "header", "Test suite [header, preview, band, search]")
	pathList := flag.String("paths", "acpt_headers.txt", "File listing header paths relative to the API data root")
	conc := flag.Int("n", 6, "Concurrency level for acceptance tests")
	flag.Parse()

	if terminal.IsTerminal(int(os.Stdout.Fd())) {
		passed = inGreen(passed)
		failed = inRed(failed)
	}

	if *suite == "search" {
		fmt.Printf("Testing search: ")
		if !Search(*host) {
			fmt.Println(failed)
			os.Exit(1)
		}
		fmt.Println(passed)
		return
	}

	ops, found := operations[*suite]
	if !found {
		log.Fatalf("unknown test suite: %s", *suite)
	}

	paths := readPaths(*pathList)
	fmt.Printf("Testing %s on %d headers: ", *suite, len(paths))
	ok, n, t := Requests(*host, paths, ops, *conc)
	if !ok {
		fmt.Println(failed)
		os.Exit(1)
	}
	fmt.Println(passed, n, "requests", t)
}
