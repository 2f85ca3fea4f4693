//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/inlinemark"
	mainPkg = "./cmd/inlinemark"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test.All,
	"g":  Test.Golden,
	"l":  Lint.All,
	"fz": Test.Fuzz,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles bin/inlinemark when any Go source or module file changed.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil || !stale {
		return err
	}
	fmt.Println("building", binary)
	return sh.RunV("go", "build", "-ldflags", versionFlags(), "-o", binary, mainPkg)
}

// Install puts inlinemark in $GOBIN.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", versionFlags(), mainPkg)
}

// Clean removes the binary and coverage output.
func Clean() error {
	for _, p := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

// All runs the race-enabled suite with coverage.
func (Test) All() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// Verbose is All with every test name printed.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-race", "./...")
}

// Golden rewrites the renderer's txtar expectations from current output.
func (Test) Golden() error {
	return sh.RunV("go", "test", "./pkg/render", "-run", "TestGolden", "-update")
}

// Bench runs the parser and detector benchmarks.
func (Test) Bench() error {
	return gotestsum("pkgname-and-test-fails", "-run=^$", "-bench=.", "-benchmem", "./pkg/...")
}

// Cover opens an HTML coverage report.
func (Test) Cover() error {
	st.Deps(Test.All)
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	fmt.Println("wrote coverage.html")
	return nil
}

// Fuzz runs each fuzz target for FUZZTIME (default 30s).
func (Test) Fuzz() error {
	budget := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	targets := []struct{ pkg, name string }{
		{"./pkg/inline", "FuzzParse"},
		{"./pkg/block", "FuzzParse"},
		{"./pkg/block", "FuzzParseDeterministic"},
		{"./pkg/fsutil", "FuzzReadInput"},
		{"./pkg/fsutil", "FuzzWriteAtomicIfChanged"},
	}
	for _, t := range targets {
		fmt.Printf("fuzz %s %s (%s)\n", t.pkg, t.name, budget)
		err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+t.name+"$", "-fuzztime="+budget, t.pkg)
		if err != nil {
			return fmt.Errorf("fuzz %s: %w", t.name, err)
		}
	}
	return nil
}

// All formats then runs golangci-lint with fixes applied.
func (Lint) All() error {
	if err := sh.RunV("gofmt", "-w", "."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Gate is the CI pipeline: formatting, vet, lint, tests and a tidy module.
func (CI) Gate() error {
	st.SerialDeps(CI.Fmt, CI.Vet, CI.Lint, Build, Test.All, CI.Tidy)
	return nil
}

// Fmt fails when gofmt would change anything.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed on:\n%s", out)
	}
	return nil
}

func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy fails when go mod tidy changes go.mod or go.sum.
func (CI) Tidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go mod tidy changed go.mod or go.sum")
	}
	return nil
}

func readModFiles() ([]byte, error) {
	var buf bytes.Buffer
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func gotestsum(format string, args ...string) error {
	jobs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmd := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", jobs}, args...)
	return sh.RunV("go", cmd...)
}

// versionFlags injects the values printed by "inlinemark version".
func versionFlags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return out
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
