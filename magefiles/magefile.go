//go:build mage

// Package main contains Mage build targets for researchmap-site developer
// tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// siteDirs lists the working directories the pipelines and the site expect.
var siteDirs = []string{
	"_data",
	"_contents",
	"_auto_contents",
	".secrets",
	"assets/css",
	"assets/js",
}

// Init creates the site directory structure.
func Init() error {
	for _, dir := range siteDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Site directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "researchmap-site"
	cmdPkg  = "./cmd/researchmap-site"
)

func binPath() string { return filepath.Join(binDir, binName) }

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath(), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", binPath(), version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Fetch runs the authenticated pipeline.
func Fetch() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "fetch")
}

// FetchPublic runs the public pipeline.
func FetchPublic() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "fetch-public")
}

// Serve previews the site with live reload.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "serve")
}

// Stats prints project metrics: Go production/test LOC and generated page count.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	pages, err := countPages("_contents", "_auto_contents")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Generated pages:                %d\n", pages)
	return nil
}

// countGoLines counts non-blank lines in production and test Go files,
// skipping hidden and underscore-prefixed directories.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countPages counts Markdown files in the content directories that exist.
func countPages(dirs ...string) (int, error) {
	total := 0
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return 0, err
		}
		total += len(matches)
	}
	return total, nil
}
