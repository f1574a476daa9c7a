// Command pvsolve is a demonstration CLI over package solve: it reads a
// catalog and a request from a YAML file and prints the resulting version
// map, grounded on avular-packages's internal/cli cobra/viper layout and
// replacing golang-dep's own cmd/dep subcommands (init/ensure/status/remove),
// which depend on a live VCS-backed SourceManager this package does not have.
package main

func main() {
	execute()
}
