// PhotoPack packs photographs onto printable pages and writes the pages as
// PNG rasters and a PDF.
//
// Build:
//   go build -o photopack ./cmd/photopack
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o photopack.exe ./cmd/photopack
//   GOOS=darwin  GOARCH=arm64 go build -o photopack-darwin ./cmd/photopack

package main

import (
	"github.com/piwi3910/PhotoPack/internal/cli"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
