// Command ompdataperf is the launcher wrapper: it sets the capture
// adapter's activation environment variables and replaces its own process
// image with the target program, passing the target's own flags through
// untouched. It implements the launcher CLI contract: everything after the
// first non-flag argument belongs to the target program, never to
// ompdataperf itself.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

const launcherVersion = "0.0.1-alpha"

const toolLibraryName = "libompdataperf.so"

func main() {
	fs := pflag.NewFlagSet("ompdataperf", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	help := fs.BoolP("help", "h", false, "show this help message")
	verbose := fs.BoolP("verbose", "v", false, "enable verbose output")
	quiet := fs.BoolP("quiet", "q", false, "suppress warnings")
	showVersion := fs.Bool("version", false, "print the version of ompdataperf")

	fs.Usage = printHelp

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("ompdataperf version %s\n", launcherVersion)
		os.Exit(0)
	}

	args := fs.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no program specified to profile")
		os.Exit(1)
	}

	if err := setenvOmpTool(*quiet); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := setenvOmpToolLibraries(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	setenvOmpToolVerboseInit(*verbose)

	if *verbose && !*quiet {
		printEnv("OMP_TOOL")
		printEnv("OMP_TOOL_LIBRARIES")
		printEnv("OMP_TOOL_VERBOSE_INIT")
		fmt.Fprintf(os.Stderr, "info: profiling '%s'\n", joinArgs(args))
	}

	program, err := exec.LookPath(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: failed to locate program:", err)
		os.Exit(1)
	}

	if err := unix.Exec(program, args, os.Environ()); err != nil {
		fmt.Fprintln(os.Stderr, "error: failed to execute program:", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: ompdataperf [options] [program] [program arguments]")
	fmt.Println("Options:")
	fmt.Println("  -h, --help              Show this help message")
	fmt.Println("  -q, --quiet             Suppress warnings")
	fmt.Println("  -v, --verbose           Enable verbose output")
	fmt.Println("      --version           Print the version of ompdataperf")
}

func printEnv(name string) {
	v, ok := os.LookupEnv(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "info: %s not set\n", name)
		return
	}
	fmt.Fprintf(os.Stderr, "info: %s=%s\n", name, v)
}

func setenvOmpTool(quiet bool) error {
	if v, ok := os.LookupEnv("OMP_TOOL"); ok && v != "enabled" && !quiet {
		fmt.Fprintln(os.Stderr, "warning: OMP_TOOL is defined but is not set to 'enabled'. Ignoring set value.")
	}
	return os.Setenv("OMP_TOOL", "enabled")
}

func setenvOmpToolLibraries() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}
	realPath, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		return fmt.Errorf("resolving canonical path for %s: %w", toolLibraryName, err)
	}
	libPath := filepath.Join(filepath.Dir(realPath), toolLibraryName)

	newValue := libPath
	if existing, ok := os.LookupEnv("OMP_TOOL_LIBRARIES"); ok {
		newValue = existing + ":" + libPath
	}
	return os.Setenv("OMP_TOOL_LIBRARIES", newValue)
}

func setenvOmpToolVerboseInit(verbose bool) {
	if _, ok := os.LookupEnv("OMP_TOOL_VERBOSE_INIT"); ok {
		return
	}
	if verbose {
		os.Setenv("OMP_TOOL_VERBOSE_INIT", "stderr")
	} else {
		os.Setenv("OMP_TOOL_VERBOSE_INIT", "disabled")
	}
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}
