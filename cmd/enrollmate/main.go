// Command enrollmate extracts course schedules from a saved enrollment page.
package main

import "github.com/enrollmate/enrollmate/internal/cli"

func main() {
	cli.Execute()
}
