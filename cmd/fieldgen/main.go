package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suparena/metastore"
	"github.com/suparena/metastore/processor"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	if *versionFlag || *vFlag {
		info := metastore.GetVersionInfo()
		fmt.Printf("metastore fieldgen version %s\n", info)
		os.Exit(0)
	}

	processor.Main()
}
