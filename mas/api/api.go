// ENVI metadata API

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/edisonguo/jet"
	reuseport "github.com/kavu/go_reuseport"
	_ "github.com/lib/pq"
	"github.com/nci/envi/metrics"
	"github.com/nci/envi/utils"
	"github.com/nci/gomemcache/memcache"
	"golang.org/x/net/netutil"
)

var (
	configFile = flag.String("conf", "", "YAML config file, reloaded on SIGHUP.")
	dataRoot   = flag.String("data_root", ".", "Directory the request paths are resolved against.")
	httpPort   = flag.Int("port", 0, "http port, overrides the config file")
	mcURI      = flag.String("memcache", "", "memcache uri host:port, overrides the config file")
	logDir     = flag.String("log_dir", "", "Directory for request metrics logs.")
	verbose    = flag.Bool("v", false, "Verbose mode")
)

var (
	infoLog = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errLog  = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

func loadConfig() *utils.Config {
	if len(*configFile) == 0 {
		return utils.DefaultConfig()
	}
	config, err := utils.LoadConfigFile(*configFile)
	if err != nil {
		errLog.Fatal(err)
	}
	return config
}

func main() {
	flag.Parse()

	config := loadConfig()
	if *httpPort > 0 {
		config.API.Port = *httpPort
	}
	if len(*mcURI) > 0 {
		config.API.Memcache = *mcURI
	}
	api := config.API

	infoLog.Printf("dbUser %s dbName %s dbPool %d httpPort %d", api.DBUser, api.DBName, api.DBPool, api.Port)

	dbinfo := fmt.Sprintf("user=%s host=%s dbname=%s sslmode=disable", api.DBUser, api.DBHost, api.DBName)
	db, err := sql.Open("postgres", dbinfo)
	if err != nil {
		errLog.Fatal(err)
	}
	defer db.Close()

	db.SetMaxIdleConns(api.DBPool)
	db.SetMaxOpenConns(api.DBLimit)

	var mc *memcache.Client
	if len(api.Memcache) > 0 {
		// lazy connection; errors returned in .Get
		mc = memcache.New(api.Memcache)
	}

	var logger metrics.Logger
	if len(*logDir) > 0 {
		fileLogger := metrics.NewFileLogger(*logDir, "api", 0, 0, *verbose)
		defer fileLogger.Close()
		logger = fileLogger
	}

	resolver := utils.NewRuntimeFileResolver(api.TemplateDir + ":" + utils.DataDir + "/templates")
	tplPath, err := resolver.Lookup(headerTemplate)
	if err != nil {
		errLog.Fatalf("Failed to locate %s: %v", headerTemplate, err)
	}

	s := &server{
		dataRoot: *dataRoot,
		db:       db,
		mc:       mc,
		views:    jet.NewHTMLSet(filepath.Dir(tplPath)),
		logger:   logger,
		verbose:  *verbose,
	}
	s.config.Store(config)
	if len(*configFile) > 0 {
		utils.WatchConfig(infoLog, errLog, *configFile, &s.config)
	}

	listener, err := reuseport.Listen("tcp", fmt.Sprintf(":%d", api.Port))
	if err != nil {
		errLog.Fatal(err)
	}
	listener = netutil.LimitListener(listener, api.MaxConns)

	http.Handle("/", s)
	infoLog.Printf("listening on %s", listener.Addr())
	errLog.Fatal(http.Serve(listener, nil))
}

