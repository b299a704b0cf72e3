package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/names"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
	"github.com/sw33tLie/gridsync/pkg/whttp"
)

func main() {
	// Usage: go run *.go -root "C:\...\ThirdPartyLibraries" (key from STEAMGRIDDB_API_KEY)

	rootFlag := flag.String("root", "", "Third-party library folder")

	// Parse the command-line flags
	flag.Parse()

	if *rootFlag == "" {
		fmt.Println("Root is required. Please provide the library folder using -root flag.")
		return
	}

	ctx := context.Background()
	records, err := library.NewScanner().Scan(ctx, *rootFlag)
	if err != nil {
		fmt.Println(err)
		return
	}

	httpClient, _ := whttp.NewClient(whttp.ClientOptions{})
	catalog, err := steamgriddb.New(steamgriddb.DefaultConfig(os.Getenv("STEAMGRIDDB_API_KEY")))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer catalog.Close()

	resolver := names.NewResolver(catalog, names.DefaultSources(httpClient, nil), names.NewCache(), names.Options{})
	for _, rec := range resolver.ResolveAll(ctx, records) {
		fmt.Println(rec.DisplayName, rec.CompositeID, rec.ImageFileName)
	}
}
