// Command scan-endpoints dumps the containers and handlers found in the
// module rooted at the working directory, without running the validator.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alia5/routegen/internal/codegen/extractor"
	"github.com/Alia5/routegen/internal/codegen/meta"
	"github.com/Alia5/routegen/internal/codegen/scanner"
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	snap, err := scanner.LoadSnapshot(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load module: %v\n", err)
		os.Exit(1)
	}

	md := meta.Metadata{Module: snap.Module}
	for _, c := range scanner.Scan(snap) {
		md.Containers = append(md.Containers, extractor.Extract(snap, c))
	}

	output, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
