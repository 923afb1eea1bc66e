// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program jlitgen expands JSON-shaped literals in .jlit template files into
// Go source.
//
// Usage:
//
//	jlitgen [-config jlit.yaml] [-watch] path...
//
// Each path names either a template file or a directory whose immediate
// *.jlit entries are processed. A template name.jlit generates a sibling
// name.jlit.go. With -watch, jlitgen keeps running and regenerates a
// template whenever it changes.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/creachadair/jlit/gen"
)

var (
	configPath = flag.String("config", "", "Configuration file (default jlit.yaml, if present)")
	doWatch    = flag.Bool("watch", false, "Watch for template changes and regenerate")
)

// A config carries the optional jlit.yaml settings, mirroring gen.Options.
type config struct {
	Marker       string `yaml:"marker"`
	MarkerImport string `yaml:"markerImport"`
	ValueImport  string `yaml:"valueImport"`
	Suffix       string `yaml:"suffix"`
}

func (c *config) suffix() string {
	if c.Suffix != "" {
		return c.Suffix
	}
	return ".jlit"
}

func (c *config) options() *gen.Options {
	return &gen.Options{
		Marker:       c.Marker,
		MarkerImport: c.MarkerImport,
		ValueImport:  c.ValueImport,
	}
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("jlitgen: ")
	if flag.NArg() == 0 {
		log.Fatal("no input paths (use: jlitgen [flags] path...)")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}

	var failed bool
	for _, path := range flag.Args() {
		for _, tmpl := range listTemplates(path, cfg) {
			if err := generate(tmpl, cfg); err != nil {
				log.Printf("Error: %v", err)
				failed = true
			}
		}
	}
	if *doWatch {
		if err := watch(flag.Args(), cfg); err != nil {
			log.Fatalf("Watch: %v", err)
		}
	} else if failed {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	var cfg config
	if path == "" {
		path = "jlit.yaml"
		if _, err := os.Stat(path); err != nil {
			return &cfg, nil // optional default config is absent
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// listTemplates resolves path into template file names: a directory yields
// its immediate children matching the template suffix, any other path names
// a single template.
func listTemplates(path string, cfg *config) []string {
	fi, err := os.Stat(path)
	if err != nil {
		log.Printf("Error: %v", err)
		return nil
	}
	if !fi.IsDir() {
		return []string{path}
	}
	ms, err := filepath.Glob(filepath.Join(path, "*"+cfg.suffix()))
	if err != nil {
		log.Printf("Error: %v", err)
		return nil
	}
	return ms
}

// generate expands the template at path and writes its sibling .go file.
// Output that matches the file already on disk is not rewritten.
func generate(path string, cfg *config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := gen.File(path, src, cfg.options())
	if err != nil {
		return err // positioned at the template by gen
	}
	target := path + ".go"
	if old, err := os.ReadFile(target); err == nil && bytes.Equal(old, out) {
		return nil
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		return err
	}
	log.Printf("Wrote %s", target)
	return nil
}

// watch regenerates templates under the given paths as they change, until
// the process is interrupted.
func watch(paths []string, cfg *config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range paths {
		dir := path
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			dir = filepath.Dir(path)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	log.Print("Watching for changes")

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, cfg.suffix()) {
				continue
			}
			if err := generate(ev.Name, cfg); err != nil {
				log.Printf("Error: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watch error: %v", err)
		}
	}
}
