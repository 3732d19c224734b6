package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/nci/envi/processor"
	"github.com/nci/envi/utils"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	configFile  = flag.String("conf", "", "YAML config file.")
	format      = flag.String("fmt", "", "Output format: tsv, json or yaml. Overrides the config file.")
	pattern     = flag.String("pattern", "", "Regular expression the header path must match.")
	filter      = flag.String("filter", "", "Filter expression over header properties, e.g. \"bands > 3 && interleave == 'bil'\".")
	concurrency = flag.Int("conc", 0, "Number of headers read concurrently. Overrides the config file.")
	verbose     = flag.Bool("v", false, "Report header diagnostics on stderr.")
)

var errLog = log.New(os.Stderr, "CRAWL: ", log.Ldate|log.Ltime|log.Lshortfile)

func ensure(err error) {
	if err != nil {
		errLog.Fatal(err)
	}
}

func loadConfig() *utils.Config {
	if len(*configFile) == 0 {
		return utils.DefaultConfig()
	}
	config, err := utils.LoadConfigFile(*configFile)
	ensure(err)
	return config
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config := loadConfig()
	if len(*format) > 0 {
		config.Crawl.Format = *format
	}
	if *concurrency > 0 {
		config.Crawl.Concurrency = *concurrency
	}
	if len(*pattern) > 0 {
		config.Crawl.Pattern = *pattern
	}
	ensure(config.Validate())

	var contains *regexp.Regexp
	if len(config.Crawl.Pattern) > 0 {
		var err error
		contains, err = regexp.Compile(config.Crawl.Pattern)
		ensure(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	errChan := make(chan error, 100)
	errCount := 0
	errDone := make(chan struct{})
	go func() {
		for err := range errChan {
			errLog.Printf("%v", err)
			errCount++
		}
		close(errDone)
	}()

	pipeline := processor.InitInfoPipeline(ctx, config.Crawl.Concurrency, config.Crawl.Format, errChan)
	pipeline.Extensions = config.Extensions
	if *verbose {
		pipeline.Diagnostics = utils.Verbose(errLog)
	}
	expr, err := processor.ParseFilter(*filter)
	ensure(err)
	pipeline.Filter = expr

	p := pipeline.Process(flag.Arg(0), contains, os.Stdout)
	<-p.Out
	close(errChan)
	<-errDone

	summary := fmt.Sprintf("%d records written, %d errors", p.Count, errCount)
	if terminal.IsTerminal(int(os.Stderr.Fd())) {
		colour := "32"
		if errCount > 0 {
			colour = "31"
		}
		summary = fmt.Sprintf("\x1b[%sm%s\x1b[0m", colour, summary)
	}
	fmt.Fprintln(os.Stderr, summary)

	if errCount > 0 {
		os.Exit(1)
	}
}
