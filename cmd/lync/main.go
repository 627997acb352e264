// Command lync is the Lyn compiler's command-line front end: it reads
// a source file, runs it through the lex/parse/optimize/analyze/codegen
// pipeline, and writes the resulting assembly to an output file.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/hashicorp/logutils"

	"github.com/tgberrios/lync"
)

const defaultWritePermission = 0644 // -rw-r--r--

type args struct {
	inputPath  *string
	outputPath *string
	target     *string
	configPath *string
	verbose    *bool
}

func readArgs() *args {
	a := &args{
		inputPath:  flag.String("input", "", "Path to the Lyn source file"),
		outputPath: flag.String("o", "", "Path to the output assembly file (default: from config, else output.s)"),
		target:     flag.String("target", "", "Backend target: x86_64, arm32, riscv64, or wasm (default: from config, else x86_64)"),
		configPath: flag.String("config", "", "Path to a lyn.toml config file (default: "+"~/.config/lync/lyn.toml"+")"),
		verbose:    flag.Bool("v", false, "Enable debug-level logging"),
	}
	flag.Parse()
	return a
}

func setupLogging(verbose bool) {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN"},
		MinLevel: logutils.LogLevel("INFO"),
	}
	if verbose {
		filter.MinLevel = logutils.LogLevel("DEBUG")
	}
	log.SetOutput(filter)
}

func main() {
	a := readArgs()
	setupLogging(*a.verbose)

	if *a.inputPath == "" {
		log.Fatal("[ERROR] -input is required")
	}

	configPath := *a.configPath
	if configPath == "" {
		configPath = lyn.DefaultConfigPath()
	}
	cfg, err := lyn.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("[ERROR] %s", err)
	}

	target := *a.target
	if target == "" {
		target = cfg.Compiler.DefaultTarget
	}

	outputPath := *a.outputPath
	if outputPath == "" {
		outputPath = cfg.Compiler.OutputPathFormat
	}

	source, err := os.ReadFile(*a.inputPath)
	if err != nil {
		log.Fatalf("[ERROR] can't read %q: %s", *a.inputPath, err)
	}

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultWritePermission)
	if err != nil {
		log.Fatalf("[ERROR] can't open %q: %s", outputPath, err)
	}

	w := bufio.NewWriter(out)
	warnings, compileErr := lyn.Compile(source, target, w)

	for _, warning := range warnings {
		log.Printf("[WARN] %s", warning)
	}

	if flushErr := w.Flush(); flushErr != nil && compileErr == nil {
		compileErr = flushErr
	}
	if closeErr := out.Close(); closeErr != nil && compileErr == nil {
		compileErr = closeErr
	}

	if compileErr != nil {
		log.Fatalf("[ERROR] %s", compileErr)
	}

	log.Printf("[INFO] wrote %s (target=%s)", outputPath, target)
}
