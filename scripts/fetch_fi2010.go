package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// Fetches FI-2010 benchmark archive files into the local data directory.
// The benchmark is distributed as whitespace-delimited text matrices, one
// file per split/day-batch; pass the file URLs published with the dataset.
func main() {
	url := flag.String("url", "", "URL of a benchmark split file")
	output := flag.String("output", "", "Output file path (defaults to data/<url basename>)")
	flag.Parse()

	if *url == "" {
		fmt.Println("Usage: fetch_fi2010 -url <split file URL> [-output path]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *output == "" {
		*output = filepath.Join("data", path.Base(*url))
	}

	log.Printf("Fetching %s...", *url)

	resp, err := http.Get(*url)
	if err != nil {
		log.Fatalf("Failed to fetch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Unexpected status: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	file, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	n, err := io.Copy(file, resp.Body)
	if err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	log.Printf("Saved %d bytes to %s", n, *output)
}
